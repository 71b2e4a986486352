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
	"github.com/99minutos/plans-system/internal/core/geo"
	"github.com/99minutos/plans-system/internal/core/ports"
)

const collectionPlans = "plans"

// PlanRepository stores each plan, members and comments included, as one
// document.
type PlanRepository struct {
	col *mongo.Collection
}

func NewPlanRepository(db *mongo.Database) *PlanRepository {
	return &PlanRepository{col: db.Collection(collectionPlans)}
}

type mongoMember struct {
	UserID   string    `bson:"user_id"`
	Joined   time.Time `bson:"joined"`
	Approved bool      `bson:"approved"`
}

type mongoComment struct {
	ID       string    `bson:"id"`
	Body     string    `bson:"body"`
	Pinned   bool      `bson:"pinned"`
	AuthorID string    `bson:"author_id"`
	Created  time.Time `bson:"created"`
}

type mongoPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	Description string             `bson:"description"`
	Type        string             `bson:"type"`
	Time        time.Time          `bson:"time"`
	Expires     time.Time          `bson:"expires"`
	Location    []float64          `bson:"location"` // [lng, lat] legacy pair for the 2d index
	Capacity    int                `bson:"max"`
	Members     []mongoMember      `bson:"members"`
	Comments    []mongoComment     `bson:"comments"`
	Blocked     []string           `bson:"blocked"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func toMongoPlan(p *domain.Plan) (mongoPlan, error) {
	doc := mongoPlan{
		OwnerID:     p.OwnerID,
		Description: p.Description,
		Type:        string(p.Type),
		Time:        p.Time,
		Expires:     p.ExpiresAt(),
		Location:    []float64{p.Location.Lng, p.Location.Lat},
		Capacity:    p.Capacity,
		Members:     make([]mongoMember, 0, len(p.Members)),
		Comments:    make([]mongoComment, 0, len(p.Comments)),
		Blocked:     append([]string{}, p.Blocked...),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ID != "" {
		oid, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return mongoPlan{}, domain.ErrPlanNotFound
		}
		doc.ID = oid
	}
	for _, m := range p.Members {
		doc.Members = append(doc.Members, mongoMember(m))
	}
	for _, c := range p.Comments {
		doc.Comments = append(doc.Comments, mongoComment(c))
	}
	return doc, nil
}

func (d mongoPlan) toDomain() *domain.Plan {
	p := &domain.Plan{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		Description: d.Description,
		Type:        domain.PlanType(d.Type),
		Time:        d.Time.UTC(),
		Expires:     d.Expires.UTC(),
		Capacity:    d.Capacity,
		Members:     make([]domain.Member, 0, len(d.Members)),
		Comments:    make([]domain.Comment, 0, len(d.Comments)),
		Blocked:     append([]string{}, d.Blocked...),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if len(d.Location) == 2 {
		p.Location = geo.Point{Lng: d.Location[0], Lat: d.Location[1]}
	}
	for _, m := range d.Members {
		m.Joined = m.Joined.UTC()
		p.Members = append(p.Members, domain.Member(m))
	}
	for _, c := range d.Comments {
		c.Created = c.Created.UTC()
		p.Comments = append(p.Comments, domain.Comment(c))
	}
	return p
}

// discoveryFilter renders a cap and its exclusions as a query document.
func discoveryFilter(area geo.Cap, f ports.DiscoveryFilter) bson.M {
	filter := bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{
					bson.A{area.Center.Lng, area.Center.Lat},
					area.Radians,
				},
			},
		},
	}
	if f.ExcludeBlocked != "" {
		filter["blocked"] = bson.M{"$nin": bson.A{f.ExcludeBlocked}}
	}
	if !f.ActiveAt.IsZero() {
		filter["expires"] = bson.M{"$gte": f.ActiveAt}
	}
	return filter
}

// Create inserts a new plan and assigns its id.
func (r *PlanRepository) Create(ctx context.Context, p *domain.Plan) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toMongoPlan(p)
	if err != nil {
		return err
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid.Hex()
	}
	return nil
}

// FindByID retrieves one plan. Malformed ids are reported as not found.
func (r *PlanRepository) FindByID(ctx context.Context, id string) (*domain.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPlanNotFound
	}

	var doc mongoPlan
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlanNotFound
		}
		return nil, fmt.Errorf("find plan: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PlanRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Plan, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
}

func (r *PlanRepository) FindWithin(ctx context.Context, area geo.Cap, f ports.DiscoveryFilter) ([]*domain.Plan, error) {
	return r.find(ctx, discoveryFilter(area, f), options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
}

func (r *PlanRepository) FindByParticipant(ctx context.Context, userID string) ([]*domain.Plan, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"owner_id": userID},
		bson.M{"members.user_id": userID},
	}}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
}

// Save replaces the whole document.
func (r *PlanRepository) Save(ctx context.Context, p *domain.Plan) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toMongoPlan(p)
	if err != nil {
		return err
	}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		return fmt.Errorf("replace plan: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPlanNotFound
	}
	return nil
}

func (r *PlanRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Plan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := r.col.Find(ctx, filter, findOpts...)
	if err != nil {
		return nil, fmt.Errorf("find plans: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoPlan
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	out := make([]*domain.Plan, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// EnsureIndexes creates the geo index and the participant lookups.
func (r *PlanRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2d"}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "members.user_id", Value: 1}}},
		{Keys: bson.D{{Key: "expires", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
