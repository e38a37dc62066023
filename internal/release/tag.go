// Package release classifies production release tags and resolves the commit
// ranges between them.
package release

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	// production_deploy_2024_03_01-10_30
	underscoreStampRegex = regexp.MustCompile(`(\d{4})_(\d{2})_(\d{2})-(\d{2})_(\d{2})`)
	// production_deploy 2024/03/01 10:30 Europe/Berlin
	slashStampRegex = regexp.MustCompile(`(\d{4})/(\d{2})/(\d{2}) (\d{2}):(\d{2})`)
)

const (
	underscoreLayout = "2006_01_02-15_04"
	slashLayout      = "2006/01/02 15:04"
)

// Tag is one production release marker.
type Tag struct {
	Raw string
	// ParsedAt is the zero time when Raw does not encode a timestamp.
	ParsedAt time.Time
	// Canonical is Raw without any location or zone tail.
	Canonical string
}

// Timestamped reports whether the tag text encodes a timestamp.
func (t Tag) Timestamped() bool {
	return !t.ParsedAt.IsZero()
}

func (t Tag) String() string {
	return t.Raw
}

// Classify parses the timestamp embedded in a release tag, if any.
// Tags without one are returned as opaque: zero ParsedAt and Canonical == raw.
func Classify(raw string) Tag {
	if loc := underscoreStampRegex.FindStringIndex(raw); loc != nil {
		if ts, err := time.ParseInLocation(underscoreLayout, raw[loc[0]:loc[1]], time.UTC); err == nil {
			return Tag{Raw: raw, ParsedAt: ts, Canonical: raw[:loc[1]]}
		}
	}
	if loc := slashStampRegex.FindStringIndex(raw); loc != nil {
		zone := time.UTC
		if tail := strings.TrimSpace(raw[loc[1]:]); tail != "" {
			if l, err := time.LoadLocation(tail); err == nil {
				zone = l
			}
		}
		if ts, err := time.ParseInLocation(slashLayout, raw[loc[0]:loc[1]], zone); err == nil {
			return Tag{Raw: raw, ParsedAt: ts, Canonical: raw[:loc[1]]}
		}
	}
	return Tag{Raw: raw, Canonical: raw}
}

// ClassifyAll classifies raw tag names, keeps those starting with prefix and
// returns them in release order.
func ClassifyAll(raws []string, prefix string) []Tag {
	var tags []Tag
	for _, raw := range raws {
		if !strings.HasPrefix(raw, prefix) {
			continue
		}
		tags = append(tags, Classify(raw))
	}
	SortTags(tags)
	return tags
}

// SortTags orders tags oldest first. Timestamped tags sort by time; opaque tags
// sort lexically and come before all timestamped ones.
func SortTags(tags []Tag) {
	sort.SliceStable(tags, func(i, j int) bool {
		a, b := tags[i], tags[j]
		switch {
		case a.Timestamped() && b.Timestamped():
			if a.ParsedAt.Equal(b.ParsedAt) {
				return a.Raw < b.Raw
			}
			return a.ParsedAt.Before(b.ParsedAt)
		case !a.Timestamped() && !b.Timestamped():
			return a.Raw < b.Raw
		default:
			return !a.Timestamped()
		}
	})
}

// Last returns the most recent tag.
func Last(tags []Tag) (Tag, bool) {
	if len(tags) == 0 {
		return Tag{}, false
	}
	return tags[len(tags)-1], true
}

// Lookup finds the tag the user meant by name, accepting either the raw or
// the location-qualified form.
func Lookup(tags []Tag, name string) (Tag, bool) {
	for _, t := range tags {
		if t.Raw == name {
			return t, true
		}
	}
	canonical := Classify(name).Canonical
	for _, t := range tags {
		if t.Canonical == canonical {
			return t, true
		}
	}
	return Tag{}, false
}
