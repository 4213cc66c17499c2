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
	"sort"
)

// ClassStats summarizes the errors of one class for one haplotype.
type ClassStats struct {
	// Total is the number of calls.
	Total int
	// Types counts calls per type.
	Types map[string]int
	// TotalBP sums reported sizes.  Overlapping calls are double-counted.
	TotalBP int64
	// NonRedundantBP is the number of assembly bases covered by any call.
	NonRedundantBP int64
	// BPByType is NonRedundantBP restricted to each type.
	BPByType             map[string]int64
	MeanSize             float64
	MedianSize           float64
	ErrorsPerMbp         float64
	NonRedundantBPPerMbp float64
}

// CombinedStats adds up the two classes.
type CombinedStats struct {
	TotalErrors  int
	TotalErrorBP int64
	// TotalNonRedundantBP sums the per-class non-redundant coverage.
	TotalNonRedundantBP int64
	// ErrorFraction is TotalNonRedundantBP / AssemblyLength.
	ErrorFraction     float64
	AssemblyLength    int64
	AssemblyLengthMbp float64
}

// AssemblyMetrics are copied from the summary_statistics file.
type AssemblyMetrics struct {
	N50         float64
	NumContigs  float64
	QV          float64
	MappingRate float64
	Depth       float64
}

// UnitStats is the full set of statistics for one sample haplotype.
type UnitStats struct {
	Sample     string
	Haplotype  string
	Small      ClassStats
	Structural ClassStats
	Combined   CombinedStats
	Assembly   AssemblyMetrics
}

// Class returns the statistics of class c.
func (u *UnitStats) Class(c Class) *ClassStats {
	if c == Structural {
		return &u.Structural
	}
	return &u.Small
}

func median(sizes []int64) float64 {
	n := len(sizes)
	if n == 0 {
		return 0
	}
	sorted := append([]int64(nil), sizes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return (float64(sorted[n/2-1]) + float64(sorted[n/2])) / 2
}

func perMbp(v float64, lengthMbp float64) float64 {
	if lengthMbp <= 0 {
		return 0
	}
	return v / lengthMbp
}

// ComputeClassStats summarizes errs against an assembly of lengthMbp
// megabases.  Rates are 0 when the length is unknown.
func ComputeClassStats(errs []ErrorInterval, lengthMbp float64) (ClassStats, error) {
	s := ClassStats{Types: make(map[string]int)}
	var err error
	if s.NonRedundantBP, s.BPByType, err = NonRedundantCoverage(errs); err != nil {
		return ClassStats{}, err
	}
	if len(errs) == 0 {
		return s, nil
	}
	sizes := make([]int64, len(errs))
	for i := range errs {
		s.Types[errs[i].Type]++
		sizes[i] = errs[i].Size
		s.TotalBP += errs[i].Size
	}
	s.Total = len(errs)
	s.MeanSize = float64(s.TotalBP) / float64(s.Total)
	s.MedianSize = median(sizes)
	s.ErrorsPerMbp = perMbp(float64(s.Total), lengthMbp)
	s.NonRedundantBPPerMbp = perMbp(float64(s.NonRedundantBP), lengthMbp)
	return s, nil
}

// ComputeStats derives the statistics of one sample haplotype from its two
// error lists and its summary file.
func ComputeStats(small, structural []ErrorInterval, summary Summary) (UnitStats, error) {
	var (
		u   UnitStats
		err error
	)
	length := int64(summary.Value(KeyTotalLength))
	lengthMbp := float64(length) / 1e6
	if u.Small, err = ComputeClassStats(small, lengthMbp); err != nil {
		return UnitStats{}, err
	}
	if u.Structural, err = ComputeClassStats(structural, lengthMbp); err != nil {
		return UnitStats{}, err
	}
	u.Combined = CombinedStats{
		TotalErrors:         u.Small.Total + u.Structural.Total,
		TotalErrorBP:        u.Small.TotalBP + u.Structural.TotalBP,
		TotalNonRedundantBP: u.Small.NonRedundantBP + u.Structural.NonRedundantBP,
		AssemblyLength:      length,
		AssemblyLengthMbp:   lengthMbp,
	}
	if length > 0 {
		u.Combined.ErrorFraction = float64(u.Combined.TotalNonRedundantBP) / float64(length)
	}
	u.Assembly = AssemblyMetrics{
		N50:         summary.Value(KeyN50),
		NumContigs:  summary.Value(KeyNumContigs),
		QV:          summary.Value(KeyQV),
		MappingRate: summary.Value(KeyMappingRate),
		Depth:       summary.Value(KeyDepth),
	}
	return u, nil
}
