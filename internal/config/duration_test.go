// internal/config/duration_test.go
//
// Unit-tests for the unit-form Duration type.
//
// Run: go test ./internal/config -v

package config

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"10m", 10 * time.Minute},
		{"1h", time.Hour},
		{"3d", 3 * 24 * time.Hour},
		{"1h30m", 90 * time.Minute},
		{"90s", 90 * time.Second},
		{"0s", 0},
	}
	for _, c := range cases {
		got, err := ParseDuration(c.in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", c.in, err)
		}
		if time.Duration(got) != c.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", c.in, time.Duration(got), c.want)
		}
	}
}

func TestParseDurationRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "10", "5x", "s", "-5s", "10 s"} {
		if _, err := ParseDuration(in); err == nil {
			t.Errorf("ParseDuration(%q): expected error, got nil", in)
		}
	}
}

// Values past the time.Duration ceiling must error, never wrap around.
func TestParseDurationRejectsOverflow(t *testing.T) {
	// Overflow in digit accumulation, unit multiply, and segment sum.
	for _, in := range []string{
		"99999999999999999999s",
		"200000000d",
		"9223372036s9223372036s",
	} {
		if _, err := ParseDuration(in); err == nil {
			t.Errorf("ParseDuration(%q): expected out-of-range error, got nil", in)
		}
	}

	// The largest whole-second duration still parses.
	got, err := ParseDuration("9223372036s")
	if err != nil {
		t.Fatalf("ParseDuration near ceiling: %v", err)
	}
	if time.Duration(got) != 9223372036*time.Second {
		t.Errorf("ParseDuration near ceiling = %v", time.Duration(got))
	}
}

func TestDurationString(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{600 * time.Second, "10m"},
		{3600 * time.Second, "1h"},
		{1800 * time.Second, "30m"},
		{3 * 24 * time.Hour, "3d"},
		{90 * time.Second, "90s"},
		{0, "0s"},
	}
	for _, c := range cases {
		if got := Duration(c.in).String(); got != c.want {
			t.Errorf("Duration(%v).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

// Integral-second values must survive emit → parse unchanged.
func TestDurationRoundTrip(t *testing.T) {
	for _, secs := range []int64{1, 30, 59, 60, 90, 300, 1800, 3600, 86400, 259200} {
		d := Duration(time.Duration(secs) * time.Second)
		back, err := ParseDuration(d.String())
		if err != nil {
			t.Fatalf("round-trip %ds (%q): %v", secs, d.String(), err)
		}
		if back != d {
			t.Errorf("round-trip %ds: got %v via %q", secs, back, d.String())
		}
	}
}

func TestDurationJSON(t *testing.T) {
	type wrapper struct {
		T Duration `json:"t"`
	}
	out, err := json.Marshal(wrapper{T: Duration(10 * time.Minute)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"t":"10m"}` {
		t.Fatalf("marshal = %s, want {\"t\":\"10m\"}", out)
	}

	var w wrapper
	if err := json.Unmarshal([]byte(`{"t":"1h"}`), &w); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if time.Duration(w.T) != time.Hour {
		t.Fatalf("unmarshal = %v, want 1h", time.Duration(w.T))
	}

	if err := json.Unmarshal([]byte(`{"t":"soon"}`), &w); err == nil {
		t.Fatal("unmarshal of non-duration string: expected error")
	}
}
