// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package interval

import (
	"sort"
)

// Span is a 0-based half-open interval [Start, End) on a single contig.
type Span struct {
	Start PosType
	End   PosType
}

// Len returns End - Start.
func (s Span) Len() int64 {
	return int64(s.End) - int64(s.Start)
}

// MergeSpans collapses overlapping spans into a sorted, disjoint sequence.
// Spans are sorted by start; a span whose start is greater than the end of
// the currently open merged span closes it, anything else extends the open
// span's end to max(end, span.End).  Touching spans are therefore merged.
//
// The input slice is sorted in place.  Merging an already-merged sequence
// returns an equal sequence.
func MergeSpans(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	// Ties are left in arbitrary order; the merge rule doesn't care.
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	merged := make([]Span, 0, len(spans))
	cur := spans[0]
	for _, s := range spans[1:] {
		if s.Start > cur.End {
			merged = append(merged, cur)
			cur = s
			continue
		}
		if s.End > cur.End {
			cur.End = s.End
		}
	}
	return append(merged, cur)
}

// Coverage returns the number of bases covered by spans, counting each base
// once.  spans is sorted in place.
func Coverage(spans []Span) int64 {
	var total int64
	for _, s := range MergeSpans(spans) {
		total += s.Len()
	}
	return total
}

// RawSize returns the sum of span lengths, double-counting overlaps.
func RawSize(spans []Span) int64 {
	var total int64
	for _, s := range spans {
		total += s.Len()
	}
	return total
}

// OverlapLen returns the number of bases shared by a and b, or 0 if they don't
// overlap.
func OverlapLen(a, b Span) int64 {
	start := a.Start
	if b.Start > start {
		start = b.Start
	}
	end := a.End
	if b.End < end {
		end = b.End
	}
	if end <= start {
		return 0
	}
	return int64(end) - int64(start)
}

// ReciprocalOverlap checks whether a and b overlap by at least fracA of a's
// length and at least fracB of b's length.  Spans that share no base never
// match, even when both fractions are zero.
func ReciprocalOverlap(a, b Span, fracA, fracB float64) bool {
	ov := OverlapLen(a, b)
	if ov == 0 {
		return false
	}
	return float64(ov) >= fracA*float64(a.Len()) && float64(ov) >= fracB*float64(b.Len())
}
