package main

import (
	"context"
	"log"
	"time"

	"vozgestora/internal/config"
	"vozgestora/internal/repository"
	"vozgestora/internal/service"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seeds the alert working set into MongoDB. Existing alerts with the same id are replaced.
func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.MongoURI == "" {
		cfg.MongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	alerts := repository.NewAlertRepo(client.Database(cfg.MongoDB))
	for i := range service.SeedAlerts {
		alert := service.SeedAlerts[i]
		if err := alerts.Create(ctx, &alert); err != nil {
			log.Fatalf("Failed to seed alert %s: %v", alert.ID, err)
		}
		log.Printf("Seeded alert %s (%s, %s)", alert.ID, alert.MunicipalityID, alert.Status)
	}

	n, err := alerts.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count alerts: %v", err)
	}
	log.Printf("Done: %d alerts in %s.alerts", n, cfg.MongoDB)
}
