package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/geo"
	"github.com/99minutos/plans-system/internal/core/ports"
)

var t0 = time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)

func samplePlan() *domain.Plan {
	return &domain.Plan{
		ID:          "6650f1f1a1b2c3d4e5f60718",
		OwnerID:     "owner",
		Description: "tacos",
		Type:        domain.PlanMovie,
		Time:        t0,
		Location:    geo.Point{Lat: 19.4326, Lng: -99.1332},
		Capacity:    4,
		Members: []domain.Member{
			{UserID: "owner", Joined: t0, Approved: true},
			{UserID: "guest", Joined: t0.Add(time.Minute)},
		},
		Comments: []domain.Comment{
			{ID: "c1", Body: "see you", Pinned: true, AuthorID: "owner", Created: t0},
		},
		Blocked:   []string{"troll"},
		CreatedAt: t0,
		UpdatedAt: t0,
	}
}

// ---------------------------------------------------------------------------
// Document conversion
// ---------------------------------------------------------------------------

func TestToMongoPlan_StoresLocationAsLngLat(t *testing.T) {
	doc, err := toMongoPlan(samplePlan())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Location) != 2 || doc.Location[0] != -99.1332 || doc.Location[1] != 19.4326 {
		t.Fatalf("expected [lng, lat], got %v", doc.Location)
	}
	if !doc.Expires.Equal(t0) {
		t.Fatalf("expected expires to default to time, got %v", doc.Expires)
	}
	if doc.ID.Hex() != "6650f1f1a1b2c3d4e5f60718" {
		t.Fatalf("unexpected id %s", doc.ID.Hex())
	}
}

func TestToMongoPlan_InvalidID(t *testing.T) {
	p := samplePlan()
	p.ID = "not-hex"
	if _, err := toMongoPlan(p); !errors.Is(err, domain.ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestToMongoPlan_NewPlanHasZeroID(t *testing.T) {
	p := samplePlan()
	p.ID = ""
	doc, err := toMongoPlan(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.ID.IsZero() {
		t.Fatalf("expected zero id, got %s", doc.ID.Hex())
	}
}

func TestMongoPlan_RoundTrip(t *testing.T) {
	in := samplePlan()
	doc, err := toMongoPlan(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := doc.toDomain()

	if out.ID != in.ID || out.OwnerID != in.OwnerID || out.Location != in.Location {
		t.Fatalf("identity fields lost: %+v", out)
	}
	if len(out.Members) != 2 || out.Members[1].UserID != "guest" || out.Members[1].Approved {
		t.Fatalf("members not preserved: %+v", out.Members)
	}
	if len(out.Comments) != 1 || !out.Comments[0].Pinned || out.Comments[0].AuthorID != "owner" {
		t.Fatalf("comments not preserved: %+v", out.Comments)
	}
	if len(out.Blocked) != 1 || out.Blocked[0] != "troll" {
		t.Fatalf("blocked list not preserved: %v", out.Blocked)
	}
}

func TestMongoPlan_ToDomainCopiesBlocked(t *testing.T) {
	doc, _ := toMongoPlan(samplePlan())
	out := doc.toDomain()
	out.Blocked[0] = "changed"
	if doc.Blocked[0] != "troll" {
		t.Fatal("expected domain plan not to alias the document slice")
	}
}

// ---------------------------------------------------------------------------
// Discovery filter
// ---------------------------------------------------------------------------

func TestDiscoveryFilter_CenterSphere(t *testing.T) {
	area := geo.DiscoveryQuery(geo.Point{Lat: 10, Lng: 20}, 6378.1)
	f := discoveryFilter(area, ports.DiscoveryFilter{})

	loc, ok := f["location"].(bson.M)
	if !ok {
		t.Fatalf("expected location clause, got %v", f)
	}
	within := loc["$geoWithin"].(bson.M)
	sphere := within["$centerSphere"].(bson.A)
	center := sphere[0].(bson.A)
	if center[0] != 20.0 || center[1] != 10.0 {
		t.Fatalf("expected [lng, lat] center, got %v", center)
	}
	if sphere[1] != 1.0 {
		t.Fatalf("expected 1 radian, got %v", sphere[1])
	}
	if _, ok := f["blocked"]; ok {
		t.Fatal("did not expect a blocked clause without an actor")
	}
	if _, ok := f["expires"]; ok {
		t.Fatal("did not expect an expires clause without a time")
	}
}

func TestDiscoveryFilter_Exclusions(t *testing.T) {
	f := discoveryFilter(geo.Cap{}, ports.DiscoveryFilter{ExcludeBlocked: "u1", ActiveAt: t0})

	blocked := f["blocked"].(bson.M)
	nin := blocked["$nin"].(bson.A)
	if len(nin) != 1 || nin[0] != "u1" {
		t.Fatalf("unexpected blocked clause: %v", blocked)
	}
	expires := f["expires"].(bson.M)
	if got := expires["$gte"].(time.Time); !got.Equal(t0) {
		t.Fatalf("unexpected expires clause: %v", expires)
	}
}

func TestObjectIDs_DropsMalformed(t *testing.T) {
	got := objectIDs([]string{"6650f1f1a1b2c3d4e5f60718", "nope", ""})
	if len(got) != 1 {
		t.Fatalf("expected 1 id, got %d", len(got))
	}
}

func TestMatchFilter(t *testing.T) {
	f := matchFilter(domain.ActionNewRequest, domain.UserRef("u1"), domain.PlanRef("p1"))
	if f["action"] != string(domain.ActionNewRequest) || f["source.id"] != "u1" || f["target.id"] != "p1" {
		t.Fatalf("unexpected filter: %v", f)
	}
	if f["source.type"] != string(domain.RefUser) || f["target.type"] != string(domain.RefPlan) {
		t.Fatalf("unexpected ref types: %v", f)
	}
}
