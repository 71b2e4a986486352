package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/plans-system/internal/core/domain"
)

const collectionRatings = "ratings"

type RatingRepository struct {
	col *mongo.Collection
}

func NewRatingRepository(db *mongo.Database) *RatingRepository {
	return &RatingRepository{col: db.Collection(collectionRatings)}
}

type mongoRating struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	RaterID   string             `bson:"rater_id"`
	RateeID   string             `bson:"ratee_id"`
	PlanID    string             `bson:"plan_id"`
	Score     int                `bson:"score"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (r *RatingRepository) FindByPair(ctx context.Context, raterID, rateeID string) (*domain.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc mongoRating
	if err := r.col.FindOne(ctx, bson.M{"rater_id": raterID, "ratee_id": rateeID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRatingNotFound
		}
		return nil, fmt.Errorf("find rating: %w", err)
	}
	return &domain.Rating{
		ID:        doc.ID.Hex(),
		RaterID:   doc.RaterID,
		RateeID:   doc.RateeID,
		PlanID:    doc.PlanID,
		Score:     doc.Score,
		CreatedAt: doc.CreatedAt.UTC(),
		UpdatedAt: doc.UpdatedAt.UTC(),
	}, nil
}

// Upsert writes the pair's rating, creating it on first use.
func (r *RatingRepository) Upsert(ctx context.Context, rt *domain.Rating) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"rater_id": rt.RaterID, "ratee_id": rt.RateeID}
	update := bson.M{
		"$set": bson.M{
			"plan_id":    rt.PlanID,
			"score":      rt.Score,
			"updated_at": rt.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": rt.CreatedAt},
	}

	res, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		rt.ID = oid.Hex()
	}
	return nil
}

// Totals aggregates every score the ratee received.
func (r *RatingRepository) Totals(ctx context.Context, rateeID string) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ratee_id": rateeID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"sum":   bson.M{"$sum": "$score"},
			"count": bson.M{"$sum": 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate ratings: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Sum   int `bson:"sum"`
		Count int `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, fmt.Errorf("decode rating totals: %w", err)
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Sum, rows[0].Count, nil
}

func (r *RatingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "rater_id", Value: 1}, {Key: "ratee_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "ratee_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
