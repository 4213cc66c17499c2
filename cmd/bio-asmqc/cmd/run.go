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

package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/grailbio/asmqc/inspector"
	"github.com/grailbio/asmqc/interval"
	"github.com/grailbio/asmqc/segdup"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

func printClassifyStats(out io.Writer, opts segdup.Opts, stats segdup.ClassifyStats) {
	paths := opts.OutputPaths()
	fmt.Fprintf(out, "%s: %d records, %d matched, %d only in %s\n", opts.NameA, stats.RecordsA, stats.MatchedA, stats.JustA, paths.JustA)
	fmt.Fprintf(out, "%s: %d records, %d in %s, %d only in %s\n", opts.NameB, stats.RecordsB, stats.Common, paths.Common, stats.JustB, paths.JustB)
}

func compareSegdups(ctx context.Context, opts segdup.Opts, pathA, pathB string, out io.Writer) (segdup.Result, error) {
	// Checked again by Compare, but before the scratch directory exists.
	if err := opts.Validate(); err != nil {
		return segdup.Result{}, err
	}
	rc, err := segdup.NewRunContext(opts)
	if err != nil {
		return segdup.Result{}, err
	}
	defer func() {
		if err := rc.Cleanup(); err != nil {
			log.Error.Printf("cleanup %s: %v", rc.TempDir, err)
		}
	}()
	res, err := segdup.Compare(ctx, rc, pathA, pathB, segdup.NewOverlapper(rc, opts), opts)
	if err != nil {
		return res, err
	}
	fmt.Fprintf(out, "%d front matches, %d back matches, %d confirmed\n", res.FrontMatches, res.BackMatches, res.Confirmed)
	printClassifyStats(out, opts, res.Stats)
	return res, nil
}

func classify(ctx context.Context, opts segdup.Opts, pairsPath, pathA, pathB string, out io.Writer) error {
	stats, err := segdup.ClassifyFromPairs(ctx, pairsPath, pathA, pathB, opts)
	if err != nil {
		return err
	}
	printClassifyStats(out, opts, stats)
	return nil
}

// applyBatchFlags copies the error-stats flags that were set on the command
// line into opts.
func applyBatchFlags(fs *flag.FlagSet, opts *inspector.BatchOpts) (err error) {
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		v := f.Value.String()
		switch f.Name {
		case "input-dir":
			opts.InputDir = v
		case "output-dir":
			opts.OutputDir = v
		case "haplotypes":
			opts.Haplotypes = nil
			for _, h := range strings.Split(v, ",") {
				if h = strings.TrimSpace(h); h != "" {
					opts.Haplotypes = append(opts.Haplotypes, h)
				}
			}
		case "parallelism":
			opts.Parallelism, err = strconv.Atoi(v)
		case "save-detailed-errors":
			opts.SaveDetailedErrors, err = strconv.ParseBool(v)
		case "save-text-report":
			opts.SaveTextReport, err = strconv.ParseBool(v)
		}
	})
	return
}

func errorStats(ctx context.Context, opts inspector.BatchOpts, out io.Writer) error {
	b, err := inspector.RunBatch(ctx, opts)
	if err != nil {
		return err
	}
	if err := inspector.WriteBatchOutputs(ctx, opts, b); err != nil {
		return err
	}
	if err := inspector.ComputeOverall(b).Write(out); err != nil {
		return err
	}
	for _, f := range b.Failures {
		fmt.Fprintf(out, "failed: %s: %v\n", f.Unit, f.Err)
	}
	if len(b.Results) == 0 && len(b.Failures) > 0 {
		return errors.E("every haplotype failed", b.Err())
	}
	return nil
}

func coverage(ctx context.Context, path string, opts interval.NewBEDOpts, out io.Writer) error {
	u, err := interval.NewUnionFromPath(ctx, path, opts)
	if err != nil {
		return errors.E(err, "load", path)
	}
	w := tsv.NewWriter(out)
	for _, chr := range u.ChrNames() {
		w.WriteString(chr)
		w.WriteInt64(u.ChrCoverage(chr))
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	total := u.Coverage()
	w.WriteString("total")
	w.WriteInt64(total)
	if err := w.EndLine(); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	log.Printf("%s: %s bp covered", path, humanize.Comma(total))
	return nil
}
