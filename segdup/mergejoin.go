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
	"io"
	"sort"

	"github.com/grailbio/asmqc/util"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// MatchPair is a candidate correspondence between record LineA of method A
// and record LineB of method B.  Names are carried for traceability only;
// pairs are ordered and compared by line ids.
type MatchPair struct {
	LineA int
	LineB int
	NameA string
	NameB string
}

// compareMatchPairs orders pairs by (LineA, LineB).
func compareMatchPairs(p, q *MatchPair) int {
	switch {
	case p.LineA < q.LineA:
		return -1
	case p.LineA > q.LineA:
		return 1
	case p.LineB < q.LineB:
		return -1
	case p.LineB > q.LineB:
		return 1
	}
	return 0
}

// SortMatchPairs sorts pairs ascending by (LineA, LineB).
func SortMatchPairs(pairs []MatchPair) {
	sort.Slice(pairs, func(i, j int) bool { return compareMatchPairs(&pairs[i], &pairs[j]) < 0 })
}

// MergeJoin returns the (LineA, LineB) pairs present in both front and back,
// in ascending order and without repeats.  A pair in both lists matches on
// both loci of the duplication, not just one.
//
// Copies of the inputs are sorted first; the caller's slices are left as is.
func MergeJoin(front, back []MatchPair) []MatchPair {
	f := append([]MatchPair(nil), front...)
	b := append([]MatchPair(nil), back...)
	SortMatchPairs(f)
	SortMatchPairs(b)

	var confirmed []MatchPair
	fi, bi := 0, 0
	for fi < len(f) && bi < len(b) {
		c := compareMatchPairs(&f[fi], &b[bi])
		switch {
		case c == 0:
			if n := len(confirmed); n == 0 || compareMatchPairs(&confirmed[n-1], &f[fi]) != 0 {
				confirmed = append(confirmed, f[fi])
			}
			fi++
			bi++
		case c < 0:
			fi++
		case c > 0:
			bi++
		default:
			log.Panicf("internal error: MergeJoin: %+v and %+v are unordered", f[fi], b[bi])
		}
	}
	return confirmed
}

// WriteMatchPairs writes pairs as lineA, lineB, nameA, nameB rows.
func WriteMatchPairs(ctx context.Context, path string, pairs []MatchPair) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	defer file.CloseAndReport(ctx, out, &err)
	w := tsv.NewWriter(out.Writer(ctx))
	for _, p := range pairs {
		w.WriteInt64(int64(p.LineA))
		w.WriteInt64(int64(p.LineB))
		w.WriteString(p.NameA)
		w.WriteString(p.NameB)
		if err = w.EndLine(); err != nil {
			return
		}
	}
	return w.Flush()
}

// ReadMatchPairs loads a file written by WriteMatchPairs.
func ReadMatchPairs(ctx context.Context, path string) (pairs []MatchPair, err error) {
	in, err := util.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	r := tsv.NewReader(in.Reader())
	r.Comment = '#'
	r.LazyQuotes = true
	for {
		var p MatchPair
		if err = r.Read(&p); err != nil {
			if err == io.EOF {
				return pairs, nil
			}
			return nil, errors.E(errors.Invalid, "read match pairs", path, err)
		}
		pairs = append(pairs, p)
	}
}
