package repository

import (
	"context"
	"errors"

	"vozgestora/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FeedbackRepo stores citizen feedback
type FeedbackRepo interface {
	Create(ctx context.Context, f *model.Feedback) error
	GetByID(ctx context.Context, id string) (*model.Feedback, error)
	// ListByMunicipality returns matching feedback, newest first. limit <= 0 means no limit.
	ListByMunicipality(ctx context.Context, municipalityID string, filter model.FeedbackFilter, limit int) ([]*model.Feedback, error)
	UpdateStatus(ctx context.Context, id string, status model.FeedbackStatus) error
}

type feedbackRepo struct {
	collection *mongo.Collection
}

// NewFeedbackRepo creates a MongoDB feedback repository
func NewFeedbackRepo(db *mongo.Database) FeedbackRepo {
	return &feedbackRepo{
		collection: db.Collection("feedback"),
	}
}

func (r *feedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	_, err := r.collection.InsertOne(ctx, f)
	return err
}

func (r *feedbackRepo) GetByID(ctx context.Context, id string) (*model.Feedback, error) {
	var f model.Feedback
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *feedbackRepo) ListByMunicipality(ctx context.Context, municipalityID string, filter model.FeedbackFilter, limit int) ([]*model.Feedback, error) {
	query := bson.M{"municipalityId": municipalityID}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Sentiment != "" {
		query["sentiment"] = filter.Sentiment
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	feedback := []*model.Feedback{}
	if err := cursor.All(ctx, &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

func (r *feedbackRepo) UpdateStatus(ctx context.Context, id string, status model.FeedbackStatus) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
