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

package interval

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/grailbio/asmqc/util"
	"github.com/grailbio/base/log"
	gunsafe "github.com/grailbio/base/unsafe"
)

// getTokens identifies up to the first len(tokens) tokens from curLine,
// returning the number of tokens saved.  Any (group of) characters <= ' ' is
// treated as a delimiter.
func getTokens(tokens [][]byte, curLine []byte) int {
	posEnd := 0
	lineLen := len(curLine)
	for tokenIdx := range tokens {
		// These simple loops beat the standard library string-split functions
		// when only the first few columns of a BED line are needed.
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if curLine[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if curLine[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:posEnd]
	}
	return len(tokens)
}

// NewBEDOpts defines behavior of this package's BED-loading function(s).
type NewBEDOpts struct {
	// OneBasedInput interprets the BED interval boundaries as one-based [start,
	// end] instead of the usual zero-based [start, end).
	OneBasedInput bool
}

// Union is an interval-union over a set of contigs.  Each contig maps to a
// length-2N sequence, where N is the number of disjoint intervals on it, the
// (0-based) start of interval #k is in element [2k] and the end in element
// [2k+1], and the intervals are stored in increasing order.
type Union struct {
	// nameMap is a contig-keyed map with disjoint-interval-set values.  A
	// contig that was mentioned only by empty intervals maps to an empty
	// slice.  Always initialized.
	nameMap map[string][]PosType
}

func newUnion() Union {
	return Union{nameMap: make(map[string][]PosType)}
}

// ChrNames returns the names of all contigs mentioned by the Union, sorted.
func (u *Union) ChrNames() []string {
	names := make([]string, 0, len(u.nameMap))
	for name := range u.nameMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Spans returns the disjoint intervals on the given contig in increasing
// order.
func (u *Union) Spans(chrName string) []Span {
	endpoints := u.nameMap[chrName]
	spans := make([]Span, 0, len(endpoints)/2)
	us := NewUnionScanner(endpoints)
	var span Span
	for us.Scan(&span, PosTypeMax) {
		spans = append(spans, span)
	}
	return spans
}

// ChrCoverage returns the number of bases covered on the given contig.
func (u *Union) ChrCoverage(chrName string) int64 {
	endpoints := u.nameMap[chrName]
	var total int64
	for i := 0; i+1 < len(endpoints); i += 2 {
		total += int64(endpoints[i+1]) - int64(endpoints[i])
	}
	return total
}

// Coverage returns the number of bases covered by the Union, summed over all
// contigs.
func (u *Union) Coverage() int64 {
	var total int64
	for name := range u.nameMap {
		total += u.ChrCoverage(name)
	}
	return total
}

func appendEndpoints(endpoints []PosType, spans []Span) []PosType {
	for _, s := range spans {
		endpoints = append(endpoints, s.Start, s.End)
	}
	return endpoints
}

func scanUnion(scanner *bufio.Scanner, opts NewBEDOpts) (union Union, err error) {
	union = newUnion()

	var startSubtract int
	if opts.OneBasedInput {
		startSubtract++
	}

	var tokens [3][]byte

	lineIdx := 0
	prevChr := ""
	var totBases int64
	var prevStart, prevEnd PosType
	var chrIntervals []PosType
	for scanner.Scan() {
		lineIdx++
		curLine := scanner.Bytes()
		if len(curLine) > 0 && curLine[0] == '#' {
			continue
		}
		nToken := getTokens(tokens[:], curLine)
		if nToken != 3 {
			if nToken == 0 {
				continue
			}
			err = fmt.Errorf("interval.scanUnion: line %d has fewer tokens than expected", lineIdx)
			return
		}

		curChr := tokens[0]
		var parsedStart int
		if parsedStart, err = strconv.Atoi(gunsafe.BytesToString(tokens[1])); err != nil {
			return
		}
		parsedStart -= startSubtract
		if parsedStart < 0 {
			err = fmt.Errorf("interval.scanUnion: negative start coordinate %s on line %d", tokens[1], lineIdx)
			return
		}
		start := PosType(parsedStart)

		var parsedEnd int
		if parsedEnd, err = strconv.Atoi(gunsafe.BytesToString(tokens[2])); err != nil {
			return
		}
		if (parsedEnd < parsedStart) || (parsedEnd >= PosTypeMax) {
			err = fmt.Errorf("interval.scanUnion: invalid coordinate pair on line %d", lineIdx)
			return
		}
		end := PosType(parsedEnd)
		if prevChr != gunsafe.BytesToString(curChr) {
			if prevChr != "" {
				if prevEnd != -1 {
					chrIntervals = append(chrIntervals, prevStart, prevEnd)
				}
				union.nameMap[prevChr] = chrIntervals
			}
			// curChr refers to bytes on curLine that will be overwritten soon, and
			// this needs to persist as a map key.
			prevChr = string(curChr)
			if _, found := union.nameMap[prevChr]; found {
				err = fmt.Errorf("interval.scanUnion: unsorted input (split contig %s)", curChr)
				return
			}
			chrIntervals = []PosType{}
			if end == start {
				// Distinguish between 'mentioned' contigs without any covered bases
				// and unmentioned contigs.
				prevStart = -1
				prevEnd = -1
			} else {
				prevStart = start
				prevEnd = end
			}
			totBases += int64(end - start)
			continue
		}
		if end == start {
			continue
		}
		if prevEnd == -1 {
			prevStart = start
			prevEnd = end
			totBases += int64(end - start)
			continue
		}
		if start > prevEnd {
			// New interval doesn't overlap previous one, so we can save the previous
			// one.
			chrIntervals = append(chrIntervals, prevStart, prevEnd)
			prevStart = start
			prevEnd = end
			totBases += int64(end - start)
		} else {
			if start < prevStart {
				err = fmt.Errorf("interval.scanUnion: unsorted input on line %d", lineIdx)
				return
			}
			if end > prevEnd {
				totBases += int64(end - prevEnd)
				prevEnd = end
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	log.Debug.Printf("BED loaded, %d base(s) covered.", totBases)
	if prevChr != "" {
		if prevEnd != -1 {
			chrIntervals = append(chrIntervals, prevStart, prevEnd)
		}
		union.nameMap[prevChr] = chrIntervals
	}
	return
}

// NewUnion loads just the intervals from a sorted (by contig, then start)
// interval-BED, merging touching/overlapping intervals and eliminating empty
// ones in the process.  Lines starting with '#' are skipped.
func NewUnion(reader io.Reader, opts NewBEDOpts) (Union, error) {
	return scanUnion(bufio.NewScanner(reader), opts)
}

// NewUnionFromPath is a wrapper for NewUnion that takes a path instead of an
// io.Reader.  Gzipped input is decompressed transparently.
func NewUnionFromPath(ctx context.Context, path string, opts NewBEDOpts) (union Union, err error) {
	in, err := util.Open(ctx, path)
	if err != nil {
		return
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return NewUnion(in.Reader(), opts)
}

// Entry represents a single interval, with 0-based coordinates.
type Entry struct {
	ChrName string
	Start0  PosType
	End     PosType
}

// NewUnionFromEntries initializes a Union from an []Entry in any order.
// Entries are grouped by contig and each group goes through MergeSpans.
func NewUnionFromEntries(entries []Entry) (Union, error) {
	union := newUnion()
	byChr := make(map[string][]Span)
	for _, entry := range entries {
		if entry.Start0 < 0 {
			return Union{}, fmt.Errorf("interval.NewUnionFromEntries: negative start coordinate on %s", entry.ChrName)
		}
		if (entry.End < entry.Start0) || (entry.End >= PosTypeMax) {
			return Union{}, fmt.Errorf("interval.NewUnionFromEntries: invalid coordinate pair [%d, %d) on %s", entry.Start0, entry.End, entry.ChrName)
		}
		spans := byChr[entry.ChrName]
		if entry.End != entry.Start0 {
			spans = append(spans, Span{entry.Start0, entry.End})
		}
		byChr[entry.ChrName] = spans
	}
	for chrName, spans := range byChr {
		union.nameMap[chrName] = appendEndpoints([]PosType{}, MergeSpans(spans))
	}
	return union, nil
}
