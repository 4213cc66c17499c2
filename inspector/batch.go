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

package inspector

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/sync/multierror"
	"golang.org/x/sync/errgroup"
)

// BatchOpts configures RunBatch.
type BatchOpts struct {
	// InputDir holds one <NN_sample> directory per sample.
	InputDir string `toml:"input_dir"`
	// OutputDir receives the summary table and the optional dumps.
	OutputDir string `toml:"output_dir"`
	// Haplotypes names the subdirectories analyzed in every sample.
	Haplotypes []string `toml:"haplotypes"`
	// Parallelism bounds the number of units analyzed at once.  0 means no
	// limit.
	Parallelism int `toml:"parallelism"`
	// SaveDetailedErrors writes every call of every unit to
	// all_small_scale_errors.tsv and all_structural_errors.tsv.
	SaveDetailedErrors bool `toml:"save_detailed_errors"`
	// SaveTextReport writes inspector_detailed_stats.txt.
	SaveTextReport bool `toml:"save_text_report"`
}

// DefaultBatchOpts sets the default values of BatchOpts.
var DefaultBatchOpts = BatchOpts{
	OutputDir:   ".",
	Haplotypes:  []string{"hap1", "hap2"},
	Parallelism: 8,
}

// Validate checks opts for values RunBatch can't use.
func (o *BatchOpts) Validate() error {
	if o.InputDir == "" {
		return errors.E(errors.Invalid, "input dir must be set")
	}
	if o.OutputDir == "" {
		return errors.E(errors.Invalid, "output dir must be set")
	}
	if len(o.Haplotypes) == 0 {
		return errors.E(errors.Invalid, "at least one haplotype must be set")
	}
	if o.Parallelism < 0 {
		return errors.E(errors.Invalid, "parallelism must be >= 0")
	}
	return nil
}

// SampleName strips the ordering prefix, up to and including the first '_',
// from a sample directory name.
func SampleName(dirName string) string {
	if i := strings.IndexByte(dirName, '_'); i >= 0 {
		return dirName[i+1:]
	}
	return dirName
}

// ListUnits lists the sample directories directly under inputDir in name
// order and returns one unit per sample and haplotype.
func ListUnits(ctx context.Context, inputDir string, haplotypes []string) (units []Unit, nSamples int, err error) {
	var dirs []string
	lister := file.List(ctx, inputDir, false)
	for lister.Scan() {
		if lister.IsDir() {
			dirs = append(dirs, lister.Path())
		}
	}
	if err = lister.Err(); err != nil {
		return nil, 0, err
	}
	sort.Strings(dirs)
	for _, dir := range dirs {
		sample := SampleName(path.Base(strings.TrimSuffix(dir, "/")))
		for _, hap := range haplotypes {
			units = append(units, Unit{Sample: sample, Haplotype: hap, Dir: file.Join(dir, hap)})
		}
	}
	return units, len(dirs), nil
}

// UnitFailure records a unit that could not be analyzed.
type UnitFailure struct {
	Unit Unit
	Err  error
}

// BatchResult is the outcome of RunBatch.
type BatchResult struct {
	NumSamples int
	// Results holds the units that succeeded, sorted by sample then
	// haplotype.
	Results  []UnitResult
	Failures []UnitFailure
	errs     *multierror.MultiError
}

// Stats returns the statistics of every successful unit, in Results order.
func (b *BatchResult) Stats() []UnitStats {
	stats := make([]UnitStats, len(b.Results))
	for i := range b.Results {
		stats[i] = b.Results[i].Stats
	}
	return stats
}

// Err returns the failures combined into one error, or nil.
func (b *BatchResult) Err() error {
	return b.errs.Err()
}

// RunBatch analyzes every unit under opts.InputDir.  A unit that fails is
// logged and recorded in the result; it does not stop the others.  The
// returned error covers only failures that affect the whole batch.
func RunBatch(ctx context.Context, opts BatchOpts) (*BatchResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	units, nSamples, err := ListUnits(ctx, opts.InputDir, opts.Haplotypes)
	if err != nil {
		return nil, err
	}
	log.Printf("found %d samples to analyze", nSamples)

	var (
		results  = make([]UnitResult, len(units))
		failed   = make([]error, len(units))
		errs     = multierror.NewMultiError(len(units) + 1)
		mu       sync.Mutex
		analyzed int
	)
	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallelism > 0 {
		g.SetLimit(opts.Parallelism)
	}
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := AnalyzeUnit(gctx, u)
			if err != nil {
				log.Error.Printf("error processing %s: %v", u, err)
				failed[i] = err
				errs.Add(err)
				return nil
			}
			results[i] = res
			mu.Lock()
			analyzed++
			log.Debug.Printf("analyzed %s (%d/%d)", u, analyzed, len(units))
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := &BatchResult{NumSamples: nSamples, errs: errs}
	for i, u := range units {
		if failed[i] != nil {
			b.Failures = append(b.Failures, UnitFailure{Unit: u, Err: failed[i]})
			continue
		}
		b.Results = append(b.Results, results[i])
	}
	sort.SliceStable(b.Results, func(i, j int) bool {
		a, c := &b.Results[i].Stats, &b.Results[j].Stats
		if a.Sample != c.Sample {
			return a.Sample < c.Sample
		}
		return a.Haplotype < c.Haplotype
	})
	log.Printf("analyzed %d units: %d succeeded, %d failed", len(units), len(b.Results), len(b.Failures))
	return b, nil
}

// WriteBatchOutputs writes the summary table and, as opts asks, the detailed
// dumps and the text report into opts.OutputDir.
func WriteBatchOutputs(ctx context.Context, opts BatchOpts, b *BatchResult) error {
	stats := b.Stats()
	summaryPath := file.Join(opts.OutputDir, SummaryTableName)
	if err := writeFile(ctx, summaryPath, func(w io.Writer) error {
		return WriteSummaryTable(w, stats)
	}); err != nil {
		return err
	}
	log.Printf("saved summary to %s", summaryPath)

	if opts.SaveDetailedErrors {
		for _, c := range []Class{SmallScale, Structural} {
			n := 0
			for i := range b.Results {
				n += len(b.Results[i].calls(c))
			}
			if n == 0 {
				continue
			}
			dumpPath := file.Join(opts.OutputDir, dumpName(c))
			if err := writeFile(ctx, dumpPath, func(w io.Writer) error {
				return WriteErrorDump(w, c, b.Results)
			}); err != nil {
				return err
			}
			log.Printf("saved %d %s errors to %s", n, c, dumpPath)
		}
	}
	if opts.SaveTextReport {
		reportPath := file.Join(opts.OutputDir, TextReportName)
		if err := writeFile(ctx, reportPath, func(w io.Writer) error {
			return WriteTextReport(w, stats)
		}); err != nil {
			return err
		}
		log.Printf("detailed statistics saved to %s", reportPath)
	}
	return nil
}
