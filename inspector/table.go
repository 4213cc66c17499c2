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
	"context"
	"io"
	"sort"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// Output file names.
const (
	SummaryTableName   = "inspector_error_summary.tsv"
	SmallScaleDumpName = "all_small_scale_errors.tsv"
	StructuralDumpName = "all_structural_errors.tsv"
	TextReportName     = "inspector_detailed_stats.txt"
)

func dumpName(c Class) string {
	if c == Structural {
		return StructuralDumpName
	}
	return SmallScaleDumpName
}

// summaryColumns are the leading columns of the summary table.  Per-type
// count and coverage columns follow.
var summaryColumns = []string{
	"sample", "haplotype", "assembly_length", "n50", "num_contigs",
	"qv_score", "mapping_rate", "depth",
	"small_errors_total", "struct_errors_total", "total_errors",
	"small_errors_bp_raw", "small_errors_bp_nonredundant",
	"struct_errors_bp_raw", "struct_errors_bp_nonredundant",
	"total_error_bp_nonredundant",
	"small_errors_per_mbp", "struct_errors_per_mbp",
	"error_fraction_nonredundant",
}

// typeNames returns the sorted union of the error types of class c over
// stats.
func typeNames(stats []UnitStats, c Class) []string {
	seen := make(map[string]bool)
	for i := range stats {
		cs := stats[i].Class(c)
		for typ := range cs.Types {
			seen[typ] = true
		}
		for typ := range cs.BPByType {
			seen[typ] = true
		}
	}
	names := make([]string, 0, len(seen))
	for typ := range seen {
		names = append(names, typ)
	}
	sort.Strings(names)
	return names
}

func writeFloat(w *tsv.Writer, v float64) {
	w.WriteFloat64(v, 'f', -1)
}

// WriteSummaryTable writes one row per unit.  Type columns absent from a
// unit are written as 0.
func WriteSummaryTable(out io.Writer, stats []UnitStats) error {
	smallTypes := typeNames(stats, SmallScale)
	structTypes := typeNames(stats, Structural)

	w := tsv.NewWriter(out)
	for _, col := range summaryColumns {
		w.WriteString(col)
	}
	for _, typ := range smallTypes {
		w.WriteString("small_" + typ + "_count")
	}
	for _, typ := range structTypes {
		w.WriteString("struct_" + typ + "_count")
	}
	for _, typ := range smallTypes {
		w.WriteString("small_" + typ + "_bp")
	}
	for _, typ := range structTypes {
		w.WriteString("struct_" + typ + "_bp")
	}
	if err := w.EndLine(); err != nil {
		return err
	}

	for i := range stats {
		u := &stats[i]
		w.WriteString(u.Sample)
		w.WriteString(u.Haplotype)
		w.WriteInt64(u.Combined.AssemblyLength)
		writeFloat(w, u.Assembly.N50)
		writeFloat(w, u.Assembly.NumContigs)
		writeFloat(w, u.Assembly.QV)
		writeFloat(w, u.Assembly.MappingRate)
		writeFloat(w, u.Assembly.Depth)
		w.WriteInt64(int64(u.Small.Total))
		w.WriteInt64(int64(u.Structural.Total))
		w.WriteInt64(int64(u.Combined.TotalErrors))
		w.WriteInt64(u.Small.TotalBP)
		w.WriteInt64(u.Small.NonRedundantBP)
		w.WriteInt64(u.Structural.TotalBP)
		w.WriteInt64(u.Structural.NonRedundantBP)
		w.WriteInt64(u.Combined.TotalNonRedundantBP)
		writeFloat(w, u.Small.ErrorsPerMbp)
		writeFloat(w, u.Structural.ErrorsPerMbp)
		writeFloat(w, u.Combined.ErrorFraction)
		for _, typ := range smallTypes {
			w.WriteInt64(int64(u.Small.Types[typ]))
		}
		for _, typ := range structTypes {
			w.WriteInt64(int64(u.Structural.Types[typ]))
		}
		for _, typ := range smallTypes {
			w.WriteInt64(u.Small.BPByType[typ])
		}
		for _, typ := range structTypes {
			w.WriteInt64(u.Structural.BPByType[typ])
		}
		if err := w.EndLine(); err != nil {
			return err
		}
	}
	return w.Flush()
}

// WriteErrorDump writes every call of class c in results, one per line, as
// the original columns followed by size, sample and haplotype.  Coordinates
// are written as parsed.
func WriteErrorDump(out io.Writer, c Class, results []UnitResult) error {
	columns := SmallScaleColumns
	if c == Structural {
		columns = StructuralColumns
	}
	w := tsv.NewWriter(out)
	for _, col := range columns {
		w.WriteString(col)
	}
	w.WriteString("size")
	w.WriteString("sample")
	w.WriteString("haplotype")
	if err := w.EndLine(); err != nil {
		return err
	}
	for i := range results {
		r := &results[i]
		for _, e := range r.calls(c) {
			w.WriteString(e.Contig)
			w.WriteInt64(int64(e.Start))
			w.WriteInt64(int64(e.End))
			for j := 3; j < len(columns); j++ {
				var v string
				if j < len(e.Columns) {
					v = e.Columns[j]
				}
				w.WriteString(v)
			}
			w.WriteInt64(e.Size)
			w.WriteString(r.Stats.Sample)
			w.WriteString(r.Stats.Haplotype)
			if err := w.EndLine(); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// writeFile creates path and passes a buffered writer for it to fn.
func writeFile(ctx context.Context, path string, fn func(w io.Writer) error) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	bw := bufio.NewWriter(out.Writer(ctx))
	if err = fn(bw); err != nil {
		return err
	}
	return bw.Flush()
}
