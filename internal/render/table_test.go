package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteTable(t *testing.T) {
	s := testSnapshot()
	s.Ensure("Phone", "buffering")

	var buf bytes.Buffer
	WriteTable(&buf, s, false)
	out := buf.String()

	for _, want := range []string{"DEVICE", "Living Room", "Playing", "Song A", "2:05", "25%", "Kitchen", "Paused", "Phone", "Buffering"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("uncolored table contains ANSI sequences")
	}
}

func TestWriteTableNil(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, nil, false)
	if !strings.Contains(buf.String(), "DEVICE") {
		t.Errorf("expected header only, got %q", buf.String())
	}
}
