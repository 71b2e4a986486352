package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/ports"
)

type delivery struct {
	in         ports.NotifyInput
	recipients []string
	bulk       bool
}

type recordingNotifier struct {
	mu   sync.Mutex
	got  []delivery
	err  error
	done chan struct{}
}

func newRecordingNotifier(buffer int) *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, buffer)}
}

func (n *recordingNotifier) record(d delivery) error {
	n.mu.Lock()
	n.got = append(n.got, d)
	n.mu.Unlock()
	n.done <- struct{}{}
	return n.err
}

func (n *recordingNotifier) Notify(_ context.Context, in ports.NotifyInput, recipientID string) error {
	return n.record(delivery{in: in, recipients: []string{recipientID}})
}

func (n *recordingNotifier) NotifyMany(_ context.Context, in ports.NotifyInput, recipientIDs []string) error {
	return n.record(delivery{in: in, recipients: recipientIDs, bulk: true})
}

func (n *recordingNotifier) wait(t *testing.T, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		select {
		case <-n.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d deliveries", i, count)
		}
	}
}

func input(action domain.NotificationAction, planID string) ports.NotifyInput {
	return ports.NotifyInput{Action: action, Source: domain.UserRef("u1"), Target: domain.PlanRef(planID)}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, newRecordingNotifier(1), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewDispatcher(8, newRecordingNotifier(1), zerolog.Nop())
	for _, id := range []string{"plan-1", "plan-2", "", "6650f1f1a1b2c3d4e5f60718"} {
		a, b := d.shardIndex(id), d.shardIndex(id)
		if a != b {
			t.Fatalf("shard for %q changed: %d vs %d", id, a, b)
		}
		if a < 0 || a >= 8 {
			t.Fatalf("shard %d out of range", a)
		}
	}
}

func TestDispatcher_DeliversSingleAndBulk(t *testing.T) {
	next := newRecordingNotifier(4)
	d := NewDispatcher(2, next, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	if err := d.Notify(ctx, input(domain.ActionNewRequest, "p1"), "owner"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := d.NotifyMany(ctx, input(domain.ActionNewComment, "p1"), []string{"a", "b"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	next.wait(t, 2)

	next.mu.Lock()
	defer next.mu.Unlock()
	if next.got[0].bulk || next.got[0].recipients[0] != "owner" {
		t.Fatalf("unexpected first delivery: %+v", next.got[0])
	}
	if !next.got[1].bulk || len(next.got[1].recipients) != 2 {
		t.Fatalf("unexpected second delivery: %+v", next.got[1])
	}
}

func TestDispatcher_NotifyManyEmptyIsNoop(t *testing.T) {
	next := newRecordingNotifier(1)
	d := NewDispatcher(1, next, zerolog.Nop())
	if err := d.NotifyMany(context.Background(), input(domain.ActionNewComment, "p1"), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.workers[0]) != 0 {
		t.Fatal("expected nothing queued")
	}
}

func TestDispatcher_PreservesOrderPerTarget(t *testing.T) {
	const n = 50
	next := newRecordingNotifier(n)
	d := NewDispatcher(4, next, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < n; i++ {
		if err := d.Notify(ctx, input(domain.ActionNewRequest, "p1"), fmt.Sprintf("r%d", i)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	next.wait(t, n)

	next.mu.Lock()
	defer next.mu.Unlock()
	for i, got := range next.got {
		if want := fmt.Sprintf("r%d", i); got.recipients[0] != want {
			t.Fatalf("delivery %d: expected %s, got %s", i, want, got.recipients[0])
		}
	}
}

func TestDispatcher_DeliveryErrorDoesNotStopWorker(t *testing.T) {
	next := newRecordingNotifier(2)
	next.err = errors.New("boom")
	d := NewDispatcher(1, next, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	_ = d.Notify(ctx, input(domain.ActionNewRequest, "p1"), "a")
	_ = d.Notify(ctx, input(domain.ActionNewRequest, "p1"), "b")
	next.wait(t, 2)
}

func TestDispatcher_EnqueueRespectsContext(t *testing.T) {
	d := NewDispatcher(1, newRecordingNotifier(1), zerolog.Nop())
	// Fill the only channel without starting workers.
	for i := 0; i < channelBuffer; i++ {
		if err := d.Notify(context.Background(), input(domain.ActionNewRequest, "p1"), "x"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Notify(ctx, input(domain.ActionNewRequest, "p1"), "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
