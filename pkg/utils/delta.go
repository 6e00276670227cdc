package utils

import (
	"fmt"
	"regexp"
	"strings"

	"tabelog-sync-service/internal/domain/entity"
)

// ChangeArrow separates the old and new value of a changed field.
// Only this glyph is recognised; any other separator reads as "no change".
const ChangeArrow = "→"

// Shape describes the form a watched field takes on both sides of the arrow
type Shape struct {
	Label     string
	change    *regexp.Regexp
	strip     *regexp.Regexp
	normalize Transform
}

func newShape(label, value, unit, strip string, normalize Transform) Shape {
	sep := wsClass + `*` + ChangeArrow + wsClass + `*`
	return Shape{
		Label:     label,
		change:    regexp.MustCompile(`(` + value + `)` + unit + sep + `(` + value + `)`),
		strip:     regexp.MustCompile(strip),
		normalize: normalize,
	}
}

var (
	DateShape  = newShape("Date", `\d{2}/\d{2}`, "", `[^0-9/]`, TrimSpace)
	TimeShape  = newShape("Time", `\d{1,2}:\d{2}`, "", `[^0-9:]`, PadTime)
	GuestShape = newShape("Guests", `\d+`, `名?`, `[^0-9]`, TrimSpace)
)

// PadTime zero-pads the hour of an H:MM value
func PadTime(s string) string {
	s = strings.TrimSpace(s)
	if len(s) == 4 && s[1] == ':' {
		return "0" + s
	}
	return s
}

// Delta is the before/after pair of one watched field
type Delta struct {
	Label   string
	Before  string
	After   string
	Changed bool
}

// String renders the delta as a change log entry
func (d Delta) String() string {
	return fmt.Sprintf("%s: %s -> %s", d.Label, d.Before, d.After)
}

// ParseDelta splits an "old → new" value. Without an arrow both sides hold
// the raw value reduced to the shape's characters, so callers can format
// changed and unchanged fields the same way.
func ParseDelta(raw string, shape Shape) Delta {
	d := Delta{Label: shape.Label, Before: entity.NotAvailable, After: entity.NotAvailable}
	if raw == entity.NotAvailable || strings.TrimSpace(raw) == "" {
		return d
	}

	if m := shape.change.FindStringSubmatch(raw); len(m) == 3 {
		d.Before = shape.normalize(m[1])
		d.After = shape.normalize(m[2])
		d.Changed = true
		return d
	}

	cleaned := shape.normalize(shape.strip.ReplaceAllString(raw, ""))
	if cleaned == "" {
		return d
	}
	d.Before = cleaned
	d.After = cleaned
	return d
}

// ChangesSummary joins the changed deltas, or returns "No Changes"
func ChangesSummary(deltas ...Delta) string {
	var changes []string
	for _, d := range deltas {
		if d.Changed {
			changes = append(changes, d.String())
		}
	}
	if len(changes) == 0 {
		return entity.NoChanges
	}
	return strings.Join(changes, "; ")
}
