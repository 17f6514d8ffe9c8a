package repository

import (
	"context"
	"errors"

	"vozgestora/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ReportRepo handles strategic AI reports
type ReportRepo interface {
	Save(ctx context.Context, report *model.StrategicReport) error
	// Latest returns the newest report of the municipality, or nil when none exists
	Latest(ctx context.Context, municipalityID string) (*model.StrategicReport, error)
}

type reportRepo struct {
	collection *mongo.Collection
}

// NewReportRepo creates a MongoDB report repository
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{
		collection: db.Collection("strategic_reports"),
	}
}

func (r *reportRepo) Save(ctx context.Context, report *model.StrategicReport) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": report.ID}, report, opts)
	return err
}

func (r *reportRepo) Latest(ctx context.Context, municipalityID string) (*model.StrategicReport, error) {
	var report model.StrategicReport
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{"municipalityId": municipalityID}, opts).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}
