package components

import (
	"strings"
	"testing"
	"time"

	"github.com/tessro/plexwatch/internal/tail"
)

func TestPrepend(t *testing.T) {
	log := []tail.Event{{Device: "old"}}
	got := Prepend(log, []tail.Event{{Device: "a"}, {Device: "b"}})

	want := []string{"b", "a", "old"}
	if len(got) != len(want) {
		t.Fatalf("Prepend() len = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Device != w {
			t.Errorf("Prepend()[%d] = %q, want %q", i, got[i].Device, w)
		}
	}
}

func TestPrepend_Trims(t *testing.T) {
	var log []tail.Event
	for i := 0; i < MaxEvents+10; i++ {
		log = Prepend(log, []tail.Event{{Device: "d"}})
	}
	if len(log) != MaxEvents {
		t.Errorf("len = %d, want %d", len(log), MaxEvents)
	}
}

func TestFormatTimeAgo(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(-10 * time.Second), "now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-48 * time.Hour), "Apr 29"},
	}
	for _, tt := range tests {
		if got := formatTimeAgo(tt.at, now); got != tt.want {
			t.Errorf("formatTimeAgo(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"too long", 5, "too …"},
		{"x", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestEvents_Render(t *testing.T) {
	e := NewEvents()
	out := e.Render([]tail.Event{{Type: tail.EventPause, Device: "Den", Timestamp: time.Now()}}, 60, 10, false)
	if !strings.Contains(out, "[Den] Paused") {
		t.Errorf("Render() missing event text:\n%s", out)
	}

	empty := e.Render(nil, 60, 10, false)
	if !strings.Contains(empty, "No activity yet") {
		t.Errorf("Render() empty state:\n%s", empty)
	}
}
