// internal/config/duration.go
//
// Unit-form duration value type.
//
// Context
// -------
// Pool timeouts are written in config files as human-readable unit
// strings ("30s", "10m", "1h", "3d"), never as raw integers.  The
// stdlib parser has no day unit and renders 600s as "10m0s", so this
// type owns both directions: parse accepts one or more <digits><unit>
// segments, and String emits the largest unit that divides the value
// exactly.  Integral-second values round-trip byte-for-byte.
//
// Duration implements encoding.TextMarshaler / TextUnmarshaler, which
// covers encoding/json, yaml.v3, and the mapstructure decode hook used
// by the loader.

package config

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Duration is a time.Duration that serializes as a unit string.
type Duration time.Duration

// units maps a unit suffix to its length in seconds, ordered largest
// first for rendering.
var units = []struct {
	suffix string
	secs   int64
}{
	{"d", 86400},
	{"h", 3600},
	{"m", 60},
	{"s", 1},
}

// maxSeconds is the largest whole-second count representable as a
// time.Duration (about 292 years).  Anything larger is rejected rather
// than silently wrapped.
const maxSeconds = int64(math.MaxInt64) / int64(time.Second)

// ParseDuration converts a unit string such as "30s", "10m", "1h",
// "3d", or a compound like "1h30m" into a Duration.  Anything else,
// including bare integers, is rejected.
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("duration: empty string")
	}

	var total int64
	rest := s
	for rest != "" {
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("duration %q: expected digits at %q", s, rest)
		}
		var n int64
		for _, c := range rest[:i] {
			d := int64(c - '0')
			if n > (maxSeconds-d)/10 {
				return 0, fmt.Errorf("duration %q: value out of range", s)
			}
			n = n*10 + d
		}
		if i == len(rest) {
			return 0, fmt.Errorf("duration %q: missing unit (one of s, m, h, d)", s)
		}
		secs := int64(0)
		for _, u := range units {
			if strings.HasPrefix(rest[i:], u.suffix) {
				secs = u.secs
				rest = rest[i+len(u.suffix):]
				break
			}
		}
		if secs == 0 {
			return 0, fmt.Errorf("duration %q: unknown unit %q", s, rest[i:])
		}
		if n > (maxSeconds-total)/secs {
			return 0, fmt.Errorf("duration %q: value out of range", s)
		}
		total += n * secs
	}
	return Duration(time.Duration(total) * time.Second), nil
}

// String renders the duration using the largest unit that divides it
// exactly; sub-second values fall back to the stdlib rendering.
func (d Duration) String() string {
	td := time.Duration(d)
	if td%time.Second != 0 {
		return td.String()
	}
	secs := int64(td / time.Second)
	if secs == 0 {
		return "0s"
	}
	for _, u := range units {
		if secs%u.secs == 0 {
			return fmt.Sprintf("%d%s", secs/u.secs, u.suffix)
		}
	}
	return fmt.Sprintf("%ds", secs)
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
