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
	"fmt"
	"path/filepath"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Opts controls a comparison run.
type Opts struct {
	// NameA and NameB label the two methods; they name the output files and
	// must differ.
	NameA string
	NameB string
	// OutputDir receives the three classification outputs.
	OutputDir string
	// TempDir is where the run's scratch directory is created.  Empty means
	// os.TempDir().
	TempDir string
	// KeepTemp leaves the scratch directory in place after the run.
	KeepTemp bool
	// MinFracA and MinFracB are the reciprocal-overlap thresholds.
	MinFracA float64
	MinFracB float64
	// BedtoolsPath selects the external overlap engine when nonempty.
	BedtoolsPath string
	// Parallel runs the front and back overlap searches concurrently.
	Parallel bool
}

// DefaultOpts matches the 50% reciprocal overlap used for segmental
// duplication comparisons.
var DefaultOpts = Opts{
	OutputDir: ".",
	MinFracA:  0.5,
	MinFracB:  0.5,
	Parallel:  true,
}

// Validate checks preconditions that must hold before any I/O.
func (o *Opts) Validate() error {
	if o.NameA == "" || o.NameB == "" {
		return errors.E(errors.Precondition, "both sample names are required")
	}
	if o.NameA == o.NameB {
		return errors.E(errors.Precondition, fmt.Sprintf("sample names must differ, both are %q", o.NameA))
	}
	if o.MinFracA < 0 || o.MinFracA > 1 || o.MinFracB < 0 || o.MinFracB > 1 {
		return errors.E(errors.Precondition, fmt.Sprintf("overlap fractions must be in [0, 1], got %v and %v", o.MinFracA, o.MinFracB))
	}
	return nil
}

// OutputPaths returns the classification output locations for opts.
func (o *Opts) OutputPaths() ClassifyOutputs {
	return ClassifyOutputs{
		JustA:  filepath.Join(o.OutputDir, "just_"+o.NameA+".bed"),
		JustB:  filepath.Join(o.OutputDir, "just_"+o.NameB+".bed"),
		Common: filepath.Join(o.OutputDir, o.NameA+"_vs_"+o.NameB+"_inCommon.bed"),
	}
}

// NewOverlapper returns the overlap engine selected by opts.
func NewOverlapper(rc *RunContext, opts Opts) Overlapper {
	if opts.BedtoolsPath != "" {
		return BedtoolsOverlapper{Path: opts.BedtoolsPath, RC: rc}
	}
	return TreeOverlapper{}
}

// Result summarizes a comparison run.
type Result struct {
	A, B         HalfViewFiles
	FrontMatches int
	BackMatches  int
	// Confirmed is the number of symmetric matches.
	Confirmed int
	// ConfirmedPath holds the confirmed pairs, in the scratch directory.
	ConfirmedPath string
	Stats         ClassifyStats
}

// Compare reconciles duplication records of method A (pathA) with those of
// method B (pathB) and writes the classification outputs named by
// opts.OutputPaths().
func Compare(ctx context.Context, rc *RunContext, pathA, pathB string, ov Overlapper, opts Opts) (res Result, err error) {
	if err = opts.Validate(); err != nil {
		return
	}
	t0 := time.Now()
	if res.A, err = Split(ctx, rc, pathA, "a"); err != nil {
		return
	}
	if res.B, err = Split(ctx, rc, pathB, "b"); err != nil {
		return
	}
	log.Printf("%s: %d records, %s: %d records", opts.NameA, res.A.NumRecords, opts.NameB, res.B.NumRecords)

	overlapOpts := OverlapOpts{MinFracA: opts.MinFracA, MinFracB: opts.MinFracB}
	views := [2][2]string{{res.A.Front, res.B.Front}, {res.A.Back, res.B.Back}}
	var matches [2][]MatchPair
	overlapOne := func(i int) error {
		a, err := ReadHalfViews(ctx, views[i][0])
		if err != nil {
			return err
		}
		b, err := ReadHalfViews(ctx, views[i][1])
		if err != nil {
			return err
		}
		SortHalfViews(a)
		SortHalfViews(b)
		matches[i], err = ov.Overlap(ctx, a, b, overlapOpts)
		return err
	}
	// The two searches read disjoint inputs and write disjoint outputs; the
	// merge-join below waits for both.
	if opts.Parallel {
		err = traverse.Each(2, overlapOne)
	} else {
		for i := 0; i < 2 && err == nil; i++ {
			err = overlapOne(i)
		}
	}
	if err != nil {
		return
	}
	res.FrontMatches, res.BackMatches = len(matches[0]), len(matches[1])
	log.Debug.Printf("overlap: %d front matches, %d back matches", res.FrontMatches, res.BackMatches)

	confirmed := MergeJoin(matches[0], matches[1])
	res.Confirmed = len(confirmed)
	res.ConfirmedPath = rc.Path("line_numbers_in_common.tsv")
	if err = WriteMatchPairs(ctx, res.ConfirmedPath, confirmed); err != nil {
		return
	}

	presentA := NewPresenceSet(res.A.NumRecords)
	presentB := NewPresenceSet(res.B.NumRecords)
	if err = MarkConfirmed(confirmed, presentA, presentB); err != nil {
		return
	}
	if res.Stats, err = Classify(ctx, pathA, pathB, presentA, presentB, opts.OutputPaths()); err != nil {
		return
	}
	log.Printf("%d symmetric matches; just %s: %d, just %s: %d, in common: %d (%v)",
		res.Confirmed, opts.NameA, res.Stats.JustA, opts.NameB, res.Stats.JustB, res.Stats.Common, time.Since(t0))
	return
}

// ClassifyFromPairs classifies pathA and pathB using confirmed pairs loaded
// from pairsPath, without a prior pass to count lines.
func ClassifyFromPairs(ctx context.Context, pairsPath, pathA, pathB string, opts Opts) (ClassifyStats, error) {
	if err := opts.Validate(); err != nil {
		return ClassifyStats{}, err
	}
	pairs, err := ReadMatchPairs(ctx, pairsPath)
	if err != nil {
		return ClassifyStats{}, err
	}
	presentA, presentB := NewPresenceSet(-1), NewPresenceSet(-1)
	if err := MarkConfirmed(pairs, presentA, presentB); err != nil {
		return ClassifyStats{}, err
	}
	return Classify(ctx, pathA, pathB, presentA, presentB, opts.OutputPaths())
}
