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

package segdup

import (
	"context"
	"strings"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/asmqc/interval"
)

// OverlapOpts holds the reciprocal-overlap thresholds.
type OverlapOpts struct {
	// MinFracA is the minimum fraction of the A interval that must be
	// covered (bedtools -f).
	MinFracA float64
	// MinFracB is the minimum fraction of the B interval that must be
	// covered (bedtools -F).
	MinFracB float64
}

// Overlapper finds every (a, b) pair of half-views on the same contig whose
// primary loci overlap reciprocally.  The order of the returned pairs is
// unspecified.  Implementations must not modify a or b.
type Overlapper interface {
	Overlap(ctx context.Context, a, b []HalfView, opts OverlapOpts) ([]MatchPair, error)
}

// OverlapperFunc adapts a function to the Overlapper interface.
type OverlapperFunc func(ctx context.Context, a, b []HalfView, opts OverlapOpts) ([]MatchPair, error)

// Overlap implements Overlapper.
func (fn OverlapperFunc) Overlap(ctx context.Context, a, b []HalfView, opts OverlapOpts) ([]MatchPair, error) {
	return fn(ctx, a, b, opts)
}

// viewKey orders half-views in the llrb tree.  lineID keeps keys unique
// within one view set, since llrb.Tree.Insert replaces equal keys.
type viewKey struct {
	chr    string
	start  interval.PosType
	lineID int
	view   *HalfView
}

// Compare implements llrb.Comparable.
func (k viewKey) Compare(c llrb.Comparable) int {
	k2 := c.(viewKey)
	if diff := strings.Compare(k.chr, k2.chr); diff != 0 {
		return diff
	}
	if k.start != k2.start {
		if k.start < k2.start {
			return -1
		}
		return 1
	}
	return k.lineID - k2.lineID
}

// TreeOverlapper is the in-process Overlapper.  It indexes the B views in an
// ordered tree and, for each A view, visits only B views starting within the
// longest B length to the left of A's end.
type TreeOverlapper struct{}

// Overlap implements Overlapper.
func (TreeOverlapper) Overlap(ctx context.Context, a, b []HalfView, opts OverlapOpts) ([]MatchPair, error) {
	var (
		tree   llrb.Tree
		maxLen = make(map[string]interval.PosType)
	)
	for i := range b {
		v := &b[i]
		tree.Insert(viewKey{chr: v.Chr, start: v.Start, lineID: v.LineID, view: v})
		if l := v.End - v.Start; l > maxLen[v.Chr] {
			maxLen[v.Chr] = l
		}
	}

	var pairs []MatchPair
	for i := range a {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		va := &a[i]
		l, ok := maxLen[va.Chr]
		if !ok {
			continue
		}
		// Line ids start at 1, so lineID 0 sorts before every key with the same
		// (chr, start).
		from := viewKey{chr: va.Chr, start: va.Start - l}
		to := viewKey{chr: va.Chr, start: va.End}
		spanA := va.Span()
		tree.DoRange(func(c llrb.Comparable) bool {
			vb := c.(viewKey).view
			if interval.ReciprocalOverlap(spanA, vb.Span(), opts.MinFracA, opts.MinFracB) {
				pairs = append(pairs, MatchPair{LineA: va.LineID, LineB: vb.LineID, NameA: va.Name, NameB: vb.Name})
			}
			return false
		}, from, to)
	}
	return pairs, nil
}
