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
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteTextReport writes a human-readable block per unit.
func WriteTextReport(out io.Writer, stats []UnitStats) error {
	w := bufio.NewWriter(out)
	fmt.Fprintln(w, "INSPECTOR ERROR ANALYSIS - DETAILED STATISTICS")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w)
	for i := range stats {
		u := &stats[i]
		fmt.Fprintf(w, "Sample: %s - %s\n", u.Sample, u.Haplotype)
		fmt.Fprintf(w, "Assembly length: %s bp\n", humanize.Comma(u.Combined.AssemblyLength))
		fmt.Fprintf(w, "Total errors: %d\n", u.Combined.TotalErrors)
		fmt.Fprintf(w, "Total error bp (raw): %s\n", humanize.Comma(u.Combined.TotalErrorBP))
		fmt.Fprintf(w, "Total error bp (non-redundant): %s\n", humanize.Comma(u.Combined.TotalNonRedundantBP))
		fmt.Fprintf(w, "Error fraction (non-redundant): %.6f\n", u.Combined.ErrorFraction)
		for _, c := range []Class{SmallScale, Structural} {
			cs := u.Class(c)
			title := "Small-scale"
			if c == Structural {
				title = "Structural"
			}
			fmt.Fprintf(w, "\n%s errors by type:\n", title)
			for _, typ := range sortedKeys(cs.Types) {
				fmt.Fprintf(w, "  %s: %d errors, %s bp\n", typ, cs.Types[typ], humanize.Comma(cs.BPByType[typ]))
			}
		}
		fmt.Fprintf(w, "\n%s\n\n", strings.Repeat("-", 30))
	}
	return w.Flush()
}

// OverallStats summarizes a whole batch.
type OverallStats struct {
	NumSamples int
	Succeeded  int
	Failed     int
	MeanQV     float64
	// MeanAssemblyGbp is the mean assembly length in gigabases.
	MeanAssemblyGbp   float64
	SmallErrors       int
	StructuralErrors  int
	MeanErrorFraction float64
}

// ComputeOverall derives the batch-wide statistics from b.  Means are taken
// over the units that succeeded.
func ComputeOverall(b *BatchResult) OverallStats {
	o := OverallStats{
		NumSamples: b.NumSamples,
		Succeeded:  len(b.Results),
		Failed:     len(b.Failures),
	}
	if len(b.Results) == 0 {
		return o
	}
	var qv, length, fraction float64
	for i := range b.Results {
		u := &b.Results[i].Stats
		qv += u.Assembly.QV
		length += float64(u.Combined.AssemblyLength)
		fraction += u.Combined.ErrorFraction
		o.SmallErrors += u.Small.Total
		o.StructuralErrors += u.Structural.Total
	}
	n := float64(len(b.Results))
	o.MeanQV = qv / n
	o.MeanAssemblyGbp = length / n / 1e9
	o.MeanErrorFraction = fraction / n
	return o
}

// Write prints o as the "overall statistics" block.
func (o OverallStats) Write(out io.Writer) error {
	w := bufio.NewWriter(out)
	fmt.Fprintln(w, "=== OVERALL STATISTICS ===")
	fmt.Fprintf(w, "Total samples analyzed: %d\n", o.NumSamples)
	fmt.Fprintf(w, "Haplotypes analyzed: %d succeeded, %d failed\n", o.Succeeded, o.Failed)
	fmt.Fprintf(w, "Mean QV score: %.2f\n", o.MeanQV)
	fmt.Fprintf(w, "Mean assembly size: %.2f Gbp\n", o.MeanAssemblyGbp)
	fmt.Fprintf(w, "Total small-scale errors: %s\n", humanize.Comma(int64(o.SmallErrors)))
	fmt.Fprintf(w, "Total structural errors: %s\n", humanize.Comma(int64(o.StructuralErrors)))
	fmt.Fprintf(w, "Mean error rate (non-redundant): %.6f\n", o.MeanErrorFraction)
	return w.Flush()
}
