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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/asmqc/interval"
	"github.com/grailbio/base/errors"
	gunsafe "github.com/grailbio/base/unsafe"
)

// Column layout of a duplication record.  All other columns are passed
// through untouched.
const (
	chrAField   = 0
	startAField = 1
	endAField   = 2
	chrBField   = 6
	startBField = 7
	endBField   = 8
	nameField   = 16

	// nRecordFields is the minimum number of tab-separated columns a record
	// line must have.
	nRecordFields = nameField + 1

	maxLineLen = 1 << 30
)

// Locus is a 0-based half-open genomic interval.
type Locus struct {
	Chr   string
	Start interval.PosType
	End   interval.PosType
}

// Span returns the locus coordinates as an interval.Span.
func (l Locus) Span() interval.Span {
	return interval.Span{Start: l.Start, End: l.End}
}

// Less orders loci by contig name, then start, then end.
func (l Locus) Less(o Locus) bool {
	if l.Chr != o.Chr {
		return l.Chr < o.Chr
	}
	if l.Start != o.Start {
		return l.Start < o.Start
	}
	return l.End < o.End
}

// Record is one duplication call: an unordered pair of loci believed to be
// copies of each other.
type Record struct {
	// LineID is the 1-based ordinal of the record among the non-comment lines
	// of its file.
	LineID int
	A, B   Locus
	Name   string
}

// Canonicalize swaps the loci if needed so that A <= B.  Applying it to
// (X, Y) and to (Y, X) yields the same record.
func (r *Record) Canonicalize() {
	if r.B.Less(r.A) {
		r.A, r.B = r.B, r.A
	}
}

// Front returns the half-view keyed on the first locus.
func (r *Record) Front() HalfView {
	return HalfView{
		Chr: r.A.Chr, Start: r.A.Start, End: r.A.End,
		Name:       r.Name,
		PartnerChr: r.B.Chr, PartnerStart: r.B.Start, PartnerEnd: r.B.End,
		LineID: r.LineID,
	}
}

// Back returns the half-view keyed on the second locus.
func (r *Record) Back() HalfView {
	return HalfView{
		Chr: r.B.Chr, Start: r.B.Start, End: r.B.End,
		Name:       r.Name,
		PartnerChr: r.A.Chr, PartnerStart: r.A.Start, PartnerEnd: r.A.End,
		LineID: r.LineID,
	}
}

// isSkipped reports whether a line carries no record.  Comment lines and
// blank lines are skipped by every pass over a record file, so they never
// consume a line id.
func isSkipped(line []byte) bool {
	return len(line) == 0 || line[0] == '#' || len(bytes.TrimSpace(line)) == 0
}

// getTabTokens splits curLine on tabs into tokens, stopping once tokens is
// full.  It returns the number of tokens saved.
func getTabTokens(tokens [][]byte, curLine []byte) int {
	pos := 0
	for tokenIdx := range tokens {
		if pos > len(curLine) {
			return tokenIdx
		}
		end := pos
		for ; end != len(curLine); end++ {
			if curLine[end] == '\t' {
				break
			}
		}
		tokens[tokenIdx] = curLine[pos:end]
		pos = end + 1
	}
	return len(tokens)
}

func parsePos(token []byte) (interval.PosType, error) {
	v, err := strconv.ParseInt(gunsafe.BytesToString(token), 10, 32)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative coordinate %d", v)
	}
	return interval.PosType(v), nil
}

func parseLocus(tokens [][]byte, chrIdx, startIdx, endIdx int) (l Locus, err error) {
	if len(tokens[chrIdx]) == 0 {
		err = fmt.Errorf("empty contig name in column %d", chrIdx+1)
		return
	}
	if l.Start, err = parsePos(tokens[startIdx]); err != nil {
		return
	}
	if l.End, err = parsePos(tokens[endIdx]); err != nil {
		return
	}
	if l.End < l.Start {
		err = fmt.Errorf("end %d < start %d", l.End, l.Start)
		return
	}
	l.Chr = string(tokens[chrIdx])
	return
}

// ParseRecord parses one tab-delimited duplication record line and returns
// it canonicalized.  lineID is stored as is.
func ParseRecord(line []byte, lineID int) (Record, error) {
	line = bytes.TrimRight(line, "\r\n")
	var tokens [nRecordFields][]byte
	if n := getTabTokens(tokens[:], line); n < nRecordFields {
		return Record{}, fmt.Errorf("found %d columns, need at least %d", n, nRecordFields)
	}
	var (
		r   = Record{LineID: lineID}
		err error
	)
	if r.A, err = parseLocus(tokens[:], chrAField, startAField, endAField); err != nil {
		return Record{}, err
	}
	if r.B, err = parseLocus(tokens[:], chrBField, startBField, endBField); err != nil {
		return Record{}, err
	}
	r.Name = string(tokens[nameField])
	r.Canonicalize()
	return r, nil
}

// newLineScanner returns a scanner that accepts the very long lines some
// duplication callers emit (alignment strings are stored inline).
func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineLen)
	return scanner
}

// ScanRecords reads duplication records from r, calling fn with each
// canonicalized record in file order, and returns the number of records.
// Malformed lines abort the scan with an errors.Invalid error naming the
// physical line; line ids depend on every record line being parseable.
func ScanRecords(r io.Reader, label string, fn func(r Record) error) (int, error) {
	scanner := newLineScanner(r)
	lineIdx, lineID := 0, 0
	for scanner.Scan() {
		lineIdx++
		line := scanner.Bytes()
		if isSkipped(line) {
			continue
		}
		lineID++
		rec, err := ParseRecord(line, lineID)
		if err != nil {
			return lineID, errors.E(errors.Invalid, fmt.Sprintf("%s:%d", label, lineIdx), err)
		}
		if err := fn(rec); err != nil {
			return lineID, err
		}
	}
	if err := scanner.Err(); err != nil {
		return lineID, errors.E(err, label)
	}
	return lineID, nil
}
