package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/plans-system/internal/core/domain"
)

const collectionNotifications = "notifications"

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection(collectionNotifications)}
}

type mongoRef struct {
	Type string `bson:"type"`
	ID   string `bson:"id"`
}

type mongoNotification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Action      string             `bson:"action"`
	Source      mongoRef           `bson:"source"`
	Target      mongoRef           `bson:"target"`
	RecipientID string             `bson:"recipient_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toMongoRef(r domain.Ref) mongoRef {
	return mongoRef{Type: string(r.Type), ID: r.ID}
}

func toMongoNotification(n *domain.Notification) mongoNotification {
	return mongoNotification{
		Action:      string(n.Action),
		Source:      toMongoRef(n.Source),
		Target:      toMongoRef(n.Target),
		RecipientID: n.RecipientID,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func (d mongoNotification) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:          d.ID.Hex(),
		Action:      domain.NotificationAction(d.Action),
		Source:      domain.Ref{Type: domain.RefType(d.Source.Type), ID: d.Source.ID},
		Target:      domain.Ref{Type: domain.RefType(d.Target.Type), ID: d.Target.ID},
		RecipientID: d.RecipientID,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoNotification(n))
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid.Hex()
	}
	return nil
}

func (r *NotificationRepository) InsertMany(ctx context.Context, ns []*domain.Notification) error {
	if len(ns) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(ns))
	for _, n := range ns {
		docs = append(docs, toMongoNotification(n))
	}
	res, err := r.col.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	for i, id := range res.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok && i < len(ns) {
			ns[i].ID = oid.Hex()
		}
	}
	return nil
}

// ListByRecipient returns the recipient's notifications, oldest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*domain.Notification, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"recipient_id": recipientID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find notifications: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoNotification
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	out := make([]*domain.Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func matchFilter(action domain.NotificationAction, source, target domain.Ref) bson.M {
	return bson.M{
		"action":      string(action),
		"source.type": string(source.Type),
		"source.id":   source.ID,
		"target.type": string(target.Type),
		"target.id":   target.ID,
	}
}

func (r *NotificationRepository) DeleteMatching(ctx context.Context, action domain.NotificationAction, source, target domain.Ref) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, matchFilter(action, source, target))
	if err != nil {
		return 0, fmt.Errorf("delete notifications: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *NotificationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "source.id", Value: 1}, {Key: "target.id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
