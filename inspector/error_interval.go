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
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/asmqc/interval"
	"github.com/grailbio/asmqc/util"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// Class distinguishes the two error files of a haplotype.
type Class int

const (
	// SmallScale errors come from small_scale_error.bed.
	SmallScale Class = iota
	// Structural errors come from structural_error.bed.
	Structural
)

// Prefix returns the column-name prefix used for the class in summary tables.
func (c Class) Prefix() string {
	if c == Structural {
		return "struct"
	}
	return "small"
}

// BaseSubstitution is the small-scale type whose size is always 1.
const BaseSubstitution = "BaseSubstitution"

// SmallScaleColumns names the columns of a small-scale error BED.
var SmallScaleColumns = []string{
	"contig", "start", "end", "base_contig", "base_read",
	"supporting_reads", "depth", "type", "pvalue",
}

// StructuralColumns names the columns of a structural error BED.
var StructuralColumns = []string{
	"contig", "start", "end", "supporting_reads", "type", "size_info",
	"haplotype_info", "depth_left", "depth_right", "depth_min", "read_names",
	"hap_switch_info",
}

// ErrorInterval is one error call.  Start and End are 0-based, half-open.
// Size is the error length as the caller reports it, which need not equal
// End-Start.
type ErrorInterval struct {
	Contig string
	Start  interval.PosType
	End    interval.PosType
	Type   string
	Size   int64
	// Columns holds the row as read.
	Columns []string
}

// Span returns the interval covered by the call.
func (e *ErrorInterval) Span() interval.Span {
	return interval.Span{Start: e.Start, End: e.End}
}

type smallScaleRow struct {
	Contig          string
	Start           string
	End             string
	BaseContig      string
	BaseRead        string
	SupportingReads string
	Depth           string
	Type            string
	PValue          string
}

type structuralRow struct {
	Contig              string
	Start               string
	End                 string
	SupportingReads     string
	Type                string
	SizeInfo            string
	HaplotypeInfo       string
	DepthLeft           string
	DepthRight          string
	DepthMin            string
	ReadNames           string
	HaplotypeSwitchInfo string
}

// parsePos parses a coordinate.  Multi-locus calls list several
// ';'-separated positions; the first one is used.
func parsePos(s string) (interval.PosType, error) {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative position %d", v)
	}
	return interval.PosType(v), nil
}

// parseSizeInfo extracts n from the first "Size=<n>" token of a structural
// call's size column, returning 0 if there is none.
func parseSizeInfo(s string) int64 {
	const tag = "Size="
	for {
		i := strings.Index(s, tag)
		if i < 0 {
			return 0
		}
		s = s[i+len(tag):]
		n := 0
		for n < len(s) && s[n] >= '0' && s[n] <= '9' {
			n++
		}
		if n > 0 {
			v, err := strconv.ParseInt(s[:n], 10, 64)
			if err == nil {
				return v
			}
		}
	}
}

func newSmallScaleError(row *smallScaleRow) (e ErrorInterval, err error) {
	e.Contig = row.Contig
	e.Type = row.Type
	if e.Start, err = parsePos(row.Start); err != nil {
		return
	}
	if e.End, err = parsePos(row.End); err != nil {
		return
	}
	if e.End < e.Start {
		err = fmt.Errorf("end %d < start %d", e.End, e.Start)
		return
	}
	e.Size = int64(e.End) - int64(e.Start)
	if e.Type == BaseSubstitution {
		e.Size = 1
	}
	e.Columns = []string{
		row.Contig, row.Start, row.End, row.BaseContig, row.BaseRead,
		row.SupportingReads, row.Depth, row.Type, row.PValue,
	}
	return
}

func newStructuralError(row *structuralRow) (e ErrorInterval, err error) {
	e.Contig = row.Contig
	e.Type = row.Type
	if e.Start, err = parsePos(row.Start); err != nil {
		return
	}
	if e.End, err = parsePos(row.End); err != nil {
		return
	}
	// The first positions of a multi-locus call need not be ordered.
	if e.End < e.Start {
		e.Start, e.End = e.End, e.Start
	}
	e.Size = parseSizeInfo(row.SizeInfo)
	e.Columns = []string{
		row.Contig, row.Start, row.End, row.SupportingReads, row.Type,
		row.SizeInfo, row.HaplotypeInfo, row.DepthLeft, row.DepthRight,
		row.DepthMin, row.ReadNames, row.HaplotypeSwitchInfo,
	}
	return
}

// readErrorBED calls parse until it reports io.EOF.  A missing file is
// logged and yields no errors.
func readErrorBED(ctx context.Context, path string, parse func(r *tsv.Reader) (ErrorInterval, error)) (errs []ErrorInterval, err error) {
	in, err := util.Open(ctx, path)
	if err != nil {
		if errors.Is(errors.NotExist, err) {
			log.Printf("warning: %s not found", path)
			return nil, nil
		}
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
	for n := 1; ; n++ {
		e, err := parse(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("%s: record %d", path, n), err)
		}
		errs = append(errs, e)
	}
	log.Debug.Printf("read %d error calls from %s", len(errs), path)
	return errs, nil
}

// ReadSmallScaleErrors loads a small-scale error BED.  A missing file yields
// an empty list.
func ReadSmallScaleErrors(ctx context.Context, path string) ([]ErrorInterval, error) {
	return readErrorBED(ctx, path, func(r *tsv.Reader) (ErrorInterval, error) {
		var row smallScaleRow
		if err := r.Read(&row); err != nil {
			return ErrorInterval{}, err
		}
		return newSmallScaleError(&row)
	})
}

// ReadStructuralErrors loads a structural error BED.  A missing file yields
// an empty list.
func ReadStructuralErrors(ctx context.Context, path string) ([]ErrorInterval, error) {
	return readErrorBED(ctx, path, func(r *tsv.Reader) (ErrorInterval, error) {
		var row structuralRow
		if err := r.Read(&row); err != nil {
			return ErrorInterval{}, err
		}
		return newStructuralError(&row)
	})
}

func (c Class) String() string {
	if c == Structural {
		return "structural"
	}
	return "small-scale"
}

// calls returns the unit's calls of class c.
func (r *UnitResult) calls(c Class) []ErrorInterval {
	if c == Structural {
		return r.Structural
	}
	return r.Small
}
