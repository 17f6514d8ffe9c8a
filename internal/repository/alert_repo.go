package repository

import (
	"context"

	"vozgestora/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AlertRepo holds the working set of alerts
type AlertRepo interface {
	Create(ctx context.Context, alert *model.Alert) error
	ListByMunicipality(ctx context.Context, municipalityID string) ([]*model.Alert, error)
	// Delete removes an alert of the municipality; ErrNotFound when absent
	Delete(ctx context.Context, municipalityID, id string) error
	Count(ctx context.Context) (int64, error)
}

type alertRepo struct {
	collection *mongo.Collection
}

// NewAlertRepo creates a MongoDB alert repository
func NewAlertRepo(db *mongo.Database) AlertRepo {
	return &alertRepo{
		collection: db.Collection("alerts"),
	}
}

func (r *alertRepo) Create(ctx context.Context, alert *model.Alert) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": alert.ID}, alert, opts)
	return err
}

func (r *alertRepo) ListByMunicipality(ctx context.Context, municipalityID string) ([]*model.Alert, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"municipalityId": municipalityID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	alerts := []*model.Alert{}
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepo) Delete(ctx context.Context, municipalityID, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "municipalityId": municipalityID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *alertRepo) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
