package notification

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Theodlz/skyportal/internal/models"
	"github.com/Theodlz/skyportal/internal/queue"
)

type recordingNotifier struct {
	name     string
	err      error
	panics   bool
	attempts int
}

func (r *recordingNotifier) Name() string { return r.name }

func (r *recordingNotifier) Notify(ctx context.Context, target models.DeliveryTarget) error {
	r.attempts++
	if r.panics {
		panic("provider exploded")
	}
	return r.err
}

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func TestDispatchAttemptsEveryChannel(t *testing.T) {
	first := &recordingNotifier{name: "first", err: errors.New("provider down")}
	second := &recordingNotifier{name: "second"}
	third := &recordingNotifier{name: "third"}

	d := NewDispatcher(testLogger(), first, second, third)
	d.Dispatch(context.Background(), models.DeliveryTarget{})

	for _, n := range []*recordingNotifier{first, second, third} {
		if n.attempts != 1 {
			t.Fatalf("notifier %s attempted %d times, want 1", n.name, n.attempts)
		}
	}
}

func TestDispatchIsolatesPanics(t *testing.T) {
	panicking := &recordingNotifier{name: "panicking", panics: true}
	survivor := &recordingNotifier{name: "survivor"}

	d := NewDispatcher(testLogger(), panicking, survivor)
	d.Dispatch(context.Background(), models.DeliveryTarget{})

	if survivor.attempts != 1 {
		t.Fatalf("survivor attempted %d times, want 1", survivor.attempts)
	}
}

func TestNewDispatcherSkipsNil(t *testing.T) {
	only := &recordingNotifier{name: "only"}
	d := NewDispatcher(testLogger(), nil, only, nil)
	d.Dispatch(context.Background(), models.DeliveryTarget{})
	if only.attempts != 1 {
		t.Fatalf("notifier attempted %d times, want 1", only.attempts)
	}
}

func TestRunConsumesUntilCancelled(t *testing.T) {
	notifier := &recordingNotifier{name: "only"}
	d := NewDispatcher(testLogger(), notifier)

	deliveries := queue.New[models.DeliveryTarget]()
	deliveries.Append(models.DeliveryTarget{Notification: models.Notification{ID: "a"}})
	deliveries.Append(models.DeliveryTarget{Notification: models.Notification{ID: "b"}})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(ctx, deliveries)
	}()

	deadline := time.After(2 * time.Second)
	for deliveries.Len() > 0 {
		select {
		case <-deadline:
			t.Fatal("dispatcher did not drain the queue")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
