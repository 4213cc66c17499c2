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

// Package inspector summarizes the error calls an assembly-evaluation run
// made for a set of sample haplotypes.  Each haplotype directory holds a
// summary_statistics file and two error BEDs, one for small-scale errors and
// one for structural errors.
//
// Error intervals of a class are reduced to per-type counts, raw base-pair
// totals, and non-redundant coverage.  Raw totals double-count overlapping
// calls; non-redundant coverage is computed contig by contig with
// interval.MergeSpans and counts each base once.  Both are reported, under
// distinct names.
package inspector
