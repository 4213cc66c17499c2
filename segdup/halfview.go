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
	"fmt"
	"io"
	"sort"

	"github.com/grailbio/asmqc/interval"
	"github.com/grailbio/asmqc/util"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// HalfView is one projection of a Record used for overlap matching: a
// primary locus, carrying the partner locus and the originating line id as
// payload.  On disk it is the tab-separated row
//
//	chrom start end name partnerChrom partnerStart partnerEnd lineId
type HalfView struct {
	Chr          string
	Start        interval.PosType
	End          interval.PosType
	Name         string
	PartnerChr   string
	PartnerStart interval.PosType
	PartnerEnd   interval.PosType
	LineID       int
}

// Span returns the primary locus as an interval.Span.
func (h *HalfView) Span() interval.Span {
	return interval.Span{Start: h.Start, End: h.End}
}

// SortHalfViews sorts views by primary contig, then start, then line id.
func SortHalfViews(views []HalfView) {
	sort.Slice(views, func(i, j int) bool {
		a, b := &views[i], &views[j]
		if a.Chr != b.Chr {
			return a.Chr < b.Chr
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.LineID < b.LineID
	})
}

func writeHalfView(w *tsv.Writer, h HalfView) error {
	w.WriteString(h.Chr)
	w.WriteInt64(int64(h.Start))
	w.WriteInt64(int64(h.End))
	w.WriteString(h.Name)
	w.WriteString(h.PartnerChr)
	w.WriteInt64(int64(h.PartnerStart))
	w.WriteInt64(int64(h.PartnerEnd))
	w.WriteInt64(int64(h.LineID))
	return w.EndLine()
}

// WriteHalfViews writes views to w in half-view file format.
func WriteHalfViews(w io.Writer, views []HalfView) error {
	tw := tsv.NewWriter(w)
	for _, h := range views {
		if err := writeHalfView(tw, h); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// HalfViewFiles names the two half-view files produced from one record file.
type HalfViewFiles struct {
	Front string
	Back  string
	// NumRecords is the number of non-comment lines in the source file, which
	// is also the largest line id.
	NumRecords int
}

// Split canonicalizes every record of the duplication file at path and writes
// its front and back half-views into the run context's scratch directory as
// <label>_front.bed and <label>_back.bed.
func Split(ctx context.Context, rc *RunContext, path, label string) (views HalfViewFiles, err error) {
	views.Front = rc.Path(label + "_front.bed")
	views.Back = rc.Path(label + "_back.bed")

	in, err := util.Open(ctx, path)
	if err != nil {
		return views, errors.E(err, "open duplication file", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	front, err := file.Create(ctx, views.Front)
	if err != nil {
		return
	}
	defer file.CloseAndReport(ctx, front, &err)
	back, err := file.Create(ctx, views.Back)
	if err != nil {
		return
	}
	defer file.CloseAndReport(ctx, back, &err)

	frontTSV := tsv.NewWriter(front.Writer(ctx))
	backTSV := tsv.NewWriter(back.Writer(ctx))
	views.NumRecords, err = ScanRecords(in.Reader(), path, func(r Record) error {
		if err := writeHalfView(frontTSV, r.Front()); err != nil {
			return err
		}
		return writeHalfView(backTSV, r.Back())
	})
	if err != nil {
		return
	}
	if err = frontTSV.Flush(); err != nil {
		return
	}
	if err = backTSV.Flush(); err != nil {
		return
	}
	log.Debug.Printf("split %s: %d records into %s, %s", path, views.NumRecords, views.Front, views.Back)
	return
}

// ReadHalfViews loads a half-view file.
func ReadHalfViews(ctx context.Context, path string) (views []HalfView, err error) {
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
		var h HalfView
		if err = r.Read(&h); err != nil {
			if err == io.EOF {
				return views, nil
			}
			return nil, errors.E(errors.Invalid, fmt.Sprintf("read half-view file %s", path), err)
		}
		views = append(views, h)
	}
}
