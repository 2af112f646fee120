package tail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tessro/plexwatch/internal/core"
)

type fakeDevice struct {
	name     string
	status   string
	title    string
	progress float64
}

func snapshotOf(devices ...fakeDevice) *core.Snapshot {
	s := core.NewSnapshot(time.Time{})
	for _, fd := range devices {
		d := s.Ensure(fd.name, fd.status)
		if fd.title != "" {
			d.Tracks = append(d.Tracks, core.Track{
				Title:    fd.title,
				Artist:   "Artist",
				Album:    "Album",
				Duration: 200000,
				Progress: fd.progress,
			})
		}
	}
	return s
}

func eventTypes(events []Event) []EventType {
	types := make([]EventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func TestDiff(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		prev *core.Snapshot
		curr *core.Snapshot
		want []EventType
	}{
		{
			name: "first poll reports tracks",
			prev: nil,
			curr: snapshotOf(
				fakeDevice{name: "Den", status: "playing", title: "A"},
				fakeDevice{name: "Idle", status: "paused"},
			),
			want: []EventType{EventTrackChange},
		},
		{
			name: "no change",
			prev: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "A", progress: 10}),
			curr: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "A", progress: 20}),
			want: nil,
		},
		{
			name: "skip before threshold",
			prev: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "A", progress: 40}),
			curr: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "B"}),
			want: []EventType{EventTrackSkip},
		},
		{
			name: "complete at threshold",
			prev: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "A", progress: 97}),
			curr: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "B"}),
			want: []EventType{EventTrackComplete},
		},
		{
			name: "pause",
			prev: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "A"}),
			curr: snapshotOf(fakeDevice{name: "Den", status: "paused", title: "A"}),
			want: []EventType{EventPause},
		},
		{
			name: "resume",
			prev: snapshotOf(fakeDevice{name: "Den", status: "buffering", title: "A"}),
			curr: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "A"}),
			want: []EventType{EventResume},
		},
		{
			name: "device appeared with track",
			prev: snapshotOf(),
			curr: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "A"}),
			want: []EventType{EventDeviceAppeared, EventTrackChange},
		},
		{
			name: "device gone",
			prev: snapshotOf(
				fakeDevice{name: "Den", status: "playing", title: "A"},
				fakeDevice{name: "Kitchen", status: "playing", title: "B"},
			),
			curr: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "A"}),
			want: []EventType{EventDeviceGone},
		},
		{
			name: "track started on idle device",
			prev: snapshotOf(fakeDevice{name: "Den", status: "paused"}),
			curr: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "A"}),
			want: []EventType{EventTrackChange, EventResume},
		},
		{
			name: "nil current",
			prev: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "A"}),
			curr: nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := Diff(tt.prev, tt.curr, now)
			got := eventTypes(events)
			if len(got) != len(tt.want) {
				t.Fatalf("Diff() types = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Diff()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
				if !events[i].Timestamp.Equal(now) {
					t.Errorf("Diff()[%d].Timestamp = %v, want %v", i, events[i].Timestamp, now)
				}
			}
		})
	}
}

func TestDiff_DeviceGoneCarriesPrevious(t *testing.T) {
	prev := snapshotOf(fakeDevice{name: "Kitchen", status: "playing", title: "B"})
	events := Diff(prev, snapshotOf(), time.Now())

	if len(events) != 1 {
		t.Fatalf("Diff() returned %d events, want 1", len(events))
	}
	e := events[0]
	if e.Device != "Kitchen" || e.Previous == nil || e.Current != nil {
		t.Errorf("Diff() event = %+v", e)
	}
}

// sequenceSource returns queued snapshots, repeating the last one.
type sequenceSource struct {
	mu    sync.Mutex
	steps []step
}

type step struct {
	snapshot *core.Snapshot
	err      error
}

func (s *sequenceSource) Snapshot(context.Context) (*core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.steps[0]
	if len(s.steps) > 1 {
		s.steps = s.steps[1:]
	}
	return st.snapshot, st.err
}

func TestWatcher_Start(t *testing.T) {
	source := &sequenceSource{steps: []step{
		{snapshot: snapshotOf(fakeDevice{name: "Den", status: "playing", title: "A"})},
		{err: errors.New("connection refused")},
		{snapshot: snapshotOf(fakeDevice{name: "Den", status: "paused", title: "A"})},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewWatcher(source, 5*time.Millisecond)
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	var got []EventType
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case e := <-w.Events():
			got = append(got, e.Type)
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %v", got)
		}
	}

	if got[0] != EventTrackChange || got[1] != EventPause {
		t.Errorf("events = %v, want [track_change pause]", got)
	}

	w.Stop()
	if err := <-done; err != nil {
		t.Errorf("Start() error = %v, want nil after Stop", err)
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events() should be closed after Start returns")
	}
}

func TestWatcher_ContextCancel(t *testing.T) {
	source := &sequenceSource{steps: []step{{snapshot: snapshotOf()}}}

	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(source, time.Hour)

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Start() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}
