// Package completion holds the set of days a habit was checked in.
package completion

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/marcus/daygrid/internal/dates"
)

// Set is an immutable set of canonical YYYY-MM-DD keys.
// The zero value is an empty set.
type Set struct {
	keys map[string]struct{}
}

// New returns a set of the valid keys among keys. Duplicates collapse and
// malformed keys are dropped.
func New(keys ...string) Set {
	s := Set{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		if dates.Valid(k) {
			s.keys[k] = struct{}{}
		}
	}
	return s
}

// Parse decodes a JSON array of keys. It also reports how many entries
// were dropped as malformed or duplicate.
func Parse(raw string) (Set, int, error) {
	if raw == "" {
		return Set{}, 0, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return Set{}, 0, fmt.Errorf("parsing completion list: %w", err)
	}
	s := New(list...)
	return s, len(list) - s.Len(), nil
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys())
}

// String returns the JSON form, used as the stored value.
func (s Set) String() string {
	b, _ := s.MarshalJSON()
	return string(b)
}

// Has reports whether key is in the set.
func (s Set) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of keys.
func (s Set) Len() int {
	return len(s.keys)
}

// Keys returns the keys in ascending order.
func (s Set) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Equal reports whether both sets hold the same keys.
func (s Set) Equal(o Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	for k := range s.keys {
		if !o.Has(k) {
			return false
		}
	}
	return true
}

// Toggle removes key if present and adds it otherwise. The receiver is
// left untouched. wasRemoved is true when key was present.
func (s Set) Toggle(key string) (next Set, wasRemoved bool) {
	next = Set{keys: make(map[string]struct{}, len(s.keys)+1)}
	for k := range s.keys {
		next.keys[k] = struct{}{}
	}
	if _, ok := next.keys[key]; ok {
		delete(next.keys, key)
		return next, true
	}
	if dates.Valid(key) {
		next.keys[key] = struct{}{}
	}
	return next, false
}

// CountInMonth counts keys that fall in the given month.
func (s Set) CountInMonth(year int, month time.Month) int {
	prefix := fmt.Sprintf("%04d-%02d-", year, int(month))
	n := 0
	for k := range s.keys {
		if len(k) == len(dates.Layout) && k[:8] == prefix {
			n++
		}
	}
	return n
}

// CurrentStreak counts consecutive checked-in days ending today, or ending
// yesterday when today is not checked in yet.
func (s Set) CurrentStreak(today time.Time) int {
	day := dates.Midnight(today)
	if !s.Has(dates.Format(day)) {
		day = dates.AddDays(day, -1)
	}
	n := 0
	for s.Has(dates.Format(day)) {
		n++
		day = dates.AddDays(day, -1)
	}
	return n
}

// LongestStreak returns the longest run of consecutive days in the set.
func (s Set) LongestStreak() int {
	keys := s.Keys()
	best, run := 0, 0
	var prev time.Time
	for i, k := range keys {
		d, err := dates.Parse(k)
		if err != nil {
			continue
		}
		if i > 0 && dates.Format(dates.AddDays(prev, 1)) == k {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
		prev = d
	}
	return best
}
