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
	"context"
	"fmt"

	"github.com/grailbio/asmqc/util"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
)

// ClassifyOutputs names the three classification outputs.  Records keep
// their original text.
type ClassifyOutputs struct {
	// JustA receives method-A records without a confirmed match.
	JustA string
	// JustB receives method-B records without a confirmed match.
	JustB string
	// Common receives method-B records with a confirmed match in A.
	Common string
}

// ClassifyStats counts records per category.
type ClassifyStats struct {
	RecordsA int
	RecordsB int
	JustA    int
	// MatchedA counts A records with a confirmed match.  They are not written
	// anywhere; the common set is emitted from the B side only.
	MatchedA int
	JustB    int
	Common   int
}

type lineSink struct {
	f file.File
	w *bufio.Writer
}

func createSink(ctx context.Context, path string) (*lineSink, error) {
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, err
	}
	return &lineSink{f: f, w: bufio.NewWriterSize(f.Writer(ctx), 1<<20)}, nil
}

func (s *lineSink) writeLine(line []byte) error {
	if _, err := s.w.Write(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

func (s *lineSink) close(ctx context.Context, err *error) {
	if e := s.w.Flush(); e != nil && *err == nil {
		*err = e
	}
	file.CloseAndReport(ctx, s.f, err)
}

// scanLines streams the record lines of path in file order, giving each its
// line id.  Lines skipped here are skipped by ScanRecords too, so ids agree.
func scanLines(ctx context.Context, path string, fn func(lineID int, line []byte) error) (n int, err error) {
	in, err := util.Open(ctx, path)
	if err != nil {
		return 0, errors.E(err, "open duplication file", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	scanner := newLineScanner(in.Reader())
	for scanner.Scan() {
		line := scanner.Bytes()
		if isSkipped(line) {
			continue
		}
		n++
		if err = fn(n, line); err != nil {
			return
		}
	}
	err = scanner.Err()
	return
}

// Classify streams both record files a second time and splits them by the
// presence sets: unmarked A records go to JustA, marked B records go to
// Common and unmarked ones to JustB.  Every record lands in exactly one
// category of its own file.  Marked ids that match no record are an error.
func Classify(ctx context.Context, pathA, pathB string, a, b PresenceSet, out ClassifyOutputs) (stats ClassifyStats, err error) {
	justA, err := createSink(ctx, out.JustA)
	if err != nil {
		return
	}
	defer justA.close(ctx, &err)
	stats.RecordsA, err = scanLines(ctx, pathA, func(lineID int, line []byte) error {
		if a.Has(lineID) {
			stats.MatchedA++
			return nil
		}
		stats.JustA++
		return justA.writeLine(line)
	})
	if err != nil {
		return
	}

	justB, err := createSink(ctx, out.JustB)
	if err != nil {
		return
	}
	defer justB.close(ctx, &err)
	common, err := createSink(ctx, out.Common)
	if err != nil {
		return
	}
	defer common.close(ctx, &err)
	stats.RecordsB, err = scanLines(ctx, pathB, func(lineID int, line []byte) error {
		if b.Has(lineID) {
			stats.Common++
			return common.writeLine(line)
		}
		stats.JustB++
		return justB.writeLine(line)
	})
	if err != nil {
		return
	}
	if n := a.Count(); n != stats.MatchedA {
		err = errors.E(errors.Invalid, fmt.Sprintf("%d confirmed line id(s) of %s are not records of that file", n-stats.MatchedA, pathA))
		return
	}
	if n := b.Count(); n != stats.Common {
		err = errors.E(errors.Invalid, fmt.Sprintf("%d confirmed line id(s) of %s are not records of that file", n-stats.Common, pathB))
	}
	return
}
