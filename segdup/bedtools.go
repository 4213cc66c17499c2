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
	"bytes"
	"context"
	"io"
	"os/exec"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// BedtoolsOverlapper runs "bedtools intersect" as the overlap engine, the
// way the reconciliation was originally done.  Both view sets are written to
// the run's scratch directory first.
type BedtoolsOverlapper struct {
	// Path is the bedtools executable.
	Path string
	RC   *RunContext
}

// intersectRow is one line of "bedtools intersect -wa -wb" output over two
// half-view files: the A view's columns followed by the B view's.
type intersectRow struct {
	ChrA, StartA, EndA, NameA               string
	PartnerChrA, PartnerStartA, PartnerEndA string
	LineA                                   int
	ChrB, StartB, EndB, NameB               string
	PartnerChrB, PartnerStartB, PartnerEndB string
	LineB                                   int
}

func (o BedtoolsOverlapper) writeViews(ctx context.Context, prefix string, views []HalfView) (path string, err error) {
	path = o.RC.UniquePath(prefix, ".bed")
	out, err := file.Create(ctx, path)
	if err != nil {
		return "", err
	}
	defer file.CloseAndReport(ctx, out, &err)
	err = WriteHalfViews(out.Writer(ctx), views)
	return
}

// Overlap implements Overlapper.
func (o BedtoolsOverlapper) Overlap(ctx context.Context, a, b []HalfView, opts OverlapOpts) ([]MatchPair, error) {
	aPath, err := o.writeViews(ctx, "intersect_a", a)
	if err != nil {
		return nil, err
	}
	bPath, err := o.writeViews(ctx, "intersect_b", b)
	if err != nil {
		return nil, err
	}
	args := []string{"intersect",
		"-f", strconv.FormatFloat(opts.MinFracA, 'g', -1, 64),
		"-F", strconv.FormatFloat(opts.MinFracB, 'g', -1, 64),
		"-wa", "-wb", "-a", aPath, "-b", bPath}
	log.Debug.Printf("running %s %v", o.Path, args)
	cmd := exec.CommandContext(ctx, o.Path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err = cmd.Start(); err != nil {
		return nil, errors.E(err, "start", o.Path)
	}
	pairs, parseErr := parseIntersect(stdout)
	if parseErr != nil {
		// Drain so that the process can exit.
		_, _ = io.Copy(io.Discard, stdout)
	}
	if err = cmd.Wait(); err != nil {
		return nil, errors.E(err, o.Path, stderr.String())
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return pairs, nil
}

func parseIntersect(r io.Reader) ([]MatchPair, error) {
	tr := tsv.NewReader(r)
	tr.LazyQuotes = true
	var pairs []MatchPair
	for {
		var row intersectRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				return pairs, nil
			}
			return nil, errors.E(errors.Invalid, "parse bedtools output", err)
		}
		pairs = append(pairs, MatchPair{
			LineA: row.LineA, LineB: row.LineB,
			NameA: row.NameA, NameB: row.NameB,
		})
	}
}
