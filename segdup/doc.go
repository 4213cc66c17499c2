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

// Package segdup reconciles segmental-duplication calls made by two
// independent methods (for example SEDEF and WGAC).
//
// A duplication record names two loci that are copies of one another.  The
// pipeline is:
//
//  1. Canonicalize each record so the lower locus comes first, and emit a
//     "front" half-view (keyed on the first locus) and a "back" half-view
//     (keyed on the second locus), both tagged with the record's line id.
//  2. Run a reciprocal-overlap search between method A's and method B's
//     front views, and again between the back views.  The engine is an
//     Overlapper; TreeOverlapper runs in-process and BedtoolsOverlapper
//     shells out to bedtools.
//  3. Merge-join the two match lists.  A (lineA, lineB) pair seen in both
//     lists matches on both loci: a symmetric match.
//  4. Mark confirmed line ids in per-file presence sets and stream both
//     inputs again, splitting them into records exclusive to A, records
//     exclusive to B, and B records shared with A.
//
// Line ids are 1-based ordinals over non-comment lines.
package segdup
