// Package grading computes percentages, letter grades, pass status and skill remarks.
package grading

import (
	"errors"
	"sort"

	"github.com/jonathan/report-cards/internal/types"
)

// ErrNoMatchingBand is returned by Scale.Lookup when no band covers a percentage.
var ErrNoMatchingBand = errors.New("no matching grade band")

// ResolveGrade returns the label of the first band covering pct.
// Bands scoped to the given grade are tried first; when none exist, the global bands are used.
// An empty label means no band matched.
func ResolveGrade(pct float64, bands []types.GradeBand, scope *int64) string {
	label, _ := lookup(pct, bands, scope)
	return label
}

func lookup(pct float64, bands []types.GradeBand, scope *int64) (string, bool) {
	candidates := bandsForScope(bands, scope)
	if len(candidates) == 0 {
		candidates = bandsForScope(bands, nil)
	}

	for i, b := range candidates {
		if pct < b.MinPct {
			continue
		}
		if pct <= b.MaxPct {
			return b.Label, true
		}
		// Integer-edged tables (0-49, 50-100) leave fractional gaps; a value
		// below the previously scanned band's minimum belongs to this one.
		if i > 0 && candidates[i-1].MinPct > b.MaxPct && pct < candidates[i-1].MinPct {
			return b.Label, true
		}
	}
	return "", false
}

// bandsForScope keeps bands whose scope equals scope; a nil scope selects global bands.
func bandsForScope(bands []types.GradeBand, scope *int64) []types.GradeBand {
	out := make([]types.GradeBand, 0, len(bands))
	for _, b := range bands {
		switch {
		case scope == nil && b.Scope == nil:
			out = append(out, b)
		case scope != nil && b.Scope != nil && *b.Scope == *scope:
			out = append(out, b)
		}
	}
	return out
}

// Scale is a read-only snapshot of grade bands ordered by descending MinPct.
// Bands with equal MinPct keep their configured order, and the first match wins.
type Scale struct {
	bands []types.GradeBand
}

// NewScale copies and sorts bands.
func NewScale(bands []types.GradeBand) *Scale {
	sorted := make([]types.GradeBand, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinPct > sorted[j].MinPct
	})
	return &Scale{bands: sorted}
}

// Bands returns a copy of the ordered bands.
func (s *Scale) Bands() []types.GradeBand {
	if s == nil {
		return nil
	}
	out := make([]types.GradeBand, len(s.bands))
	copy(out, s.bands)
	return out
}

// Resolve returns the grade label for pct, or "" when no band matches.
func (s *Scale) Resolve(pct float64, scope *int64) string {
	if s == nil {
		return ""
	}
	return ResolveGrade(pct, s.bands, scope)
}

// Lookup is Resolve with an explicit ErrNoMatchingBand.
func (s *Scale) Lookup(pct float64, scope *int64) (string, error) {
	if s == nil {
		return "", ErrNoMatchingBand
	}
	label, ok := lookup(pct, s.bands, scope)
	if !ok {
		return "", ErrNoMatchingBand
	}
	return label, nil
}
