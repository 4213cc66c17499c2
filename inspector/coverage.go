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
	"github.com/grailbio/asmqc/interval"
)

// NonRedundantCoverage returns the number of bases covered by errs, each base
// counted once, along with the same quantity computed separately within each
// error type.  Every type present in errs has an entry in byType.  The
// per-type values may sum to more than total when calls of different types
// overlap, but no single type exceeds total.
func NonRedundantCoverage(errs []ErrorInterval) (total int64, byType map[string]int64, err error) {
	byType = make(map[string]int64)
	if len(errs) == 0 {
		return 0, byType, nil
	}
	all := make([]interval.Entry, len(errs))
	typed := make(map[string][]interval.Entry)
	for i := range errs {
		e := &errs[i]
		entry := interval.Entry{ChrName: e.Contig, Start0: e.Start, End: e.End}
		all[i] = entry
		typed[e.Type] = append(typed[e.Type], entry)
	}
	union, err := interval.NewUnionFromEntries(all)
	if err != nil {
		return 0, nil, err
	}
	total = union.Coverage()
	for typ, entries := range typed {
		union, err := interval.NewUnionFromEntries(entries)
		if err != nil {
			return 0, nil, err
		}
		byType[typ] = union.Coverage()
	}
	return total, byType, nil
}
