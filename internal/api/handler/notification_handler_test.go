package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/ports"
)

func TestNotificationHandler_List(t *testing.T) {
	stub := &stubLister{
		listFn: func(_ context.Context, actor ports.Actor) ([]domain.NotificationView, error) {
			return []domain.NotificationView{{
				ID:     "n1",
				Action: domain.ActionNewRequest,
				Source: domain.RefView{Typename: domain.RefUser, ID: "u2", Name: "Bob"},
				Target: domain.RefView{Typename: domain.RefPlan, ID: "p1"},
			}}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/v1/notifications", "", alice, nil)

	if err := NewNotificationHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(resp))
	}
	source := resp[0]["source"].(map[string]any)
	if source["__typename"] != "User" || source["name"] != "Bob" {
		t.Fatalf("unexpected source: %+v", source)
	}
}

func TestNotificationHandler_EmptyListIsArray(t *testing.T) {
	stub := &stubLister{
		listFn: func(context.Context, ports.Actor) ([]domain.NotificationView, error) { return nil, nil },
	}
	c, rec := newContext(http.MethodGet, "/v1/notifications", "", alice, nil)

	if err := NewNotificationHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Body.String() != "[]\n" {
		t.Fatalf("expected empty array, got %q", rec.Body.String())
	}
}

func TestNotificationHandler_Unauthenticated(t *testing.T) {
	stub := &stubLister{
		listFn: func(context.Context, ports.Actor) ([]domain.NotificationView, error) {
			return nil, domain.ErrUnauthenticated
		},
	}
	c, _ := newContext(http.MethodGet, "/v1/notifications", "", nil, nil)

	if err := NewNotificationHandler(stub).List(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
