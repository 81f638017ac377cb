package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestBarCounts(t *testing.T) {
	var out bytes.Buffer
	b := NewWithWriter("Live Set", 3, &out)

	b.Increment(true)
	b.Increment(false)
	b.Increment(true)
	b.Finish()
	b.Finish()

	s := out.String()
	if !strings.Contains(s, "3/3 (1 failed)") {
		t.Errorf("final line missing counts: %q", s)
	}
	if strings.Count(s, "\n") != 1 {
		t.Errorf("Finish should end the line exactly once: %q", s)
	}
}

func TestBarZeroTotal(t *testing.T) {
	var out bytes.Buffer
	b := NewWithWriter("empty", 0, &out)
	b.Finish()
	if !strings.Contains(out.String(), "0/0") {
		t.Errorf("output = %q", out.String())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 5*time.Minute, "2h5m"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
