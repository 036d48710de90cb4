package id

import (
	"fmt"
	"strings"
	"time"
)

// SlugLen is the number of description characters kept in a line reference.
const SlugLen = 10

// FormatLineRef returns a statement line reference like "chase_20250103_GITHUB".
func FormatLineRef(source string, date time.Time, tag string) string {
	return fmt.Sprintf("%s_%s_%s", source, date.Format("20060102"), tag)
}

// FormatSeqRef returns a reference for a line with no usable description,
// e.g. "line_20250115_2" for the second row of a file.
func FormatSeqRef(source string, date time.Time, seq int) string {
	return FormatLineRef(source, date, fmt.Sprintf("%d", seq))
}

// Slug keeps the first SlugLen ASCII letters and digits of desc.
// "GITHUB *PRO SUBSCRIPTION" -> "GITHUBPROS"
func Slug(desc string) string {
	s := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(s) > SlugLen {
		s = s[:SlugLen]
	}
	return s
}

// Refs hands out references that do not repeat within one statement file.
// The first use of a reference is kept as is; later ones get "_2", "_3", ...
type Refs struct {
	used map[string]bool
	last map[string]int // last suffix handed out per base reference
}

// Next returns ref, suffixed when it was handed out before.
func (r *Refs) Next(ref string) string {
	if r.used == nil {
		r.used = make(map[string]bool)
		r.last = make(map[string]int)
	}
	out := ref
	for r.used[out] {
		n := max(r.last[ref], 1) + 1
		r.last[ref] = n
		out = fmt.Sprintf("%s_%d", ref, n)
	}
	r.used[out] = true
	return out
}
