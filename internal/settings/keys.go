package settings

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is a tracker type.
type Kind string

const (
	Countdown Kind = "countdown"
	Habit     Kind = "habit"
)

// ParseKind accepts a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Countdown:
		return Countdown, nil
	case Habit:
		return Habit, nil
	default:
		return "", fmt.Errorf("unknown tracker %q (supported: countdown, habit)", s)
	}
}

// DefaultInstance is the instance name that maps to the unsuffixed keys.
const DefaultInstance = "default"

// Tracker identifies one widget instance.
type Tracker struct {
	Kind     Kind
	Instance string
}

// String returns kind or kind:instance.
func (t Tracker) String() string {
	if t.isDefault() {
		return string(t.Kind)
	}
	return string(t.Kind) + ":" + t.Instance
}

// Slug is a filesystem-safe name for the tracker. Distinct instances
// always get distinct slugs.
func (t Tracker) Slug() string {
	if t.isDefault() {
		return string(t.Kind)
	}
	return string(t.Kind) + "-" + sanitize(t.Instance)
}

func (t Tracker) isDefault() bool {
	return t.Instance == "" || t.Instance == DefaultInstance
}

// Keys are the store keys of one tracker.
type Keys struct {
	Theme  string
	Label  string
	Target string
	Anchor string
	Dates  string
}

// KeysFor returns the store keys of t. The default instance uses the
// legacy keychain names, so a keychain dump imports as is.
func KeysFor(t Tracker) Keys {
	var k Keys
	switch t.Kind {
	case Countdown:
		k = Keys{
			Theme:  "countdownTheme",
			Label:  "countdownTitle",
			Target: "countdownTargetDate",
			Anchor: "countdownInstallDate",
		}
	case Habit:
		k = Keys{
			Theme: "habitTrackerTheme",
			Label: "habitTrackerName",
			Dates: "singleHabitTrackerDates",
		}
	}
	if t.isDefault() {
		return k
	}
	suffix := ":" + t.Instance
	for _, p := range []*string{&k.Theme, &k.Label, &k.Target, &k.Anchor, &k.Dates} {
		if *p != "" {
			*p += suffix
		}
	}
	return k
}

// All returns the non-empty keys.
func (k Keys) All() []string {
	var out []string
	for _, v := range []string{k.Theme, k.Label, k.Target, k.Anchor, k.Dates} {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Discover returns the trackers that have at least one key among keys,
// ordered by kind then instance with the default instance first.
func Discover(keys []string) []Tracker {
	kinds := make(map[string]Kind)
	for _, kind := range []Kind{Countdown, Habit} {
		for _, k := range KeysFor(Tracker{Kind: kind}).All() {
			kinds[k] = kind
		}
	}

	seen := make(map[Tracker]bool)
	var out []Tracker
	for _, key := range keys {
		base, instance, _ := strings.Cut(key, ":")
		kind, ok := kinds[base]
		if !ok {
			continue
		}
		if instance == "" {
			instance = DefaultInstance
		}
		t := Tracker{Kind: kind, Instance: instance}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		if out[i].isDefault() != out[j].isDefault() {
			return out[i].isDefault()
		}
		return out[i].Instance < out[j].Instance
	})
	return out
}

// sanitize keeps ASCII letters, digits and '-' and writes every other
// byte, '_' included, as _xx hex.
func sanitize(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	return b.String()
}
