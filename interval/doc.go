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

// Package interval implements interval-union operations in a manner optimized
// for sets of genomic coordinates represented by BED files.
// (Note the 'union'.  Overlapping intervals are merged, not tracked
// separately; coverage computed from a Union counts each base once no matter
// how many input intervals cover it.)
//
// MergeSpans is the merge primitive everything else is built on: sort by
// start, then either extend the open span or start a new one.  Union applies
// it per contig.  ReciprocalOverlap is the matching test used to pair up
// intervals produced by two independent callers.
//
// It assumes every position fits in a PosType, which is currently defined as
// int32.
package interval
