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
	"bufio"
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/grailbio/asmqc/util"
	"github.com/pkg/errors"
)

// Keys recognized in a summary_statistics file.
const (
	KeyTotalLength         = "Total length"
	KeyN50                 = "N50"
	KeyNumContigs          = "Number of contigs"
	KeyLongestContig       = "Longest contig"
	KeyQV                  = "QV"
	KeyMappingRate         = "Mapping rate /%"
	KeyDepth               = "Depth"
	KeyStructuralErrors    = "Structural error"
	KeySmallScaleErrors    = "Total small-scale assembly error"
	KeySmallScalePerMbp    = "Small-scale assembly error /per Mbp"
	KeyExpansion           = "Expansion"
	KeyCollapse            = "Collapse"
	KeyHaplotypeSwitch     = "Haplotype switch"
	KeyInversion           = "Inversion"
	KeyBaseSubstitution    = "Base substitution"
	KeySmallScaleExpansion = "Small-scale expansion"
	KeySmallScaleCollapse  = "Small-scale collapse"
)

// SummaryKeys lists every recognized key.
var SummaryKeys = []string{
	KeyTotalLength, KeyN50, KeyNumContigs, KeyLongestContig, KeyQV,
	KeyMappingRate, KeyDepth, KeyStructuralErrors, KeySmallScaleErrors,
	KeySmallScalePerMbp, KeyExpansion, KeyCollapse, KeyHaplotypeSwitch,
	KeyInversion, KeyBaseSubstitution, KeySmallScaleExpansion,
	KeySmallScaleCollapse,
}

var summaryKeySet = func() map[string]bool {
	m := make(map[string]bool, len(SummaryKeys))
	for _, k := range SummaryKeys {
		m[k] = true
	}
	return m
}()

// Summary holds the scalar statistics of a summary_statistics file.
type Summary struct {
	values map[string]float64
}

// Get returns the value recorded for key.  ok is false if the file didn't
// contain the key.
func (s Summary) Get(key string) (v float64, ok bool) {
	v, ok = s.values[key]
	return
}

// Value returns the value recorded for key, or 0 if there is none.
func (s Summary) Value(key string) float64 {
	return s.values[key]
}

// Len returns the number of keys present.
func (s Summary) Len() int {
	return len(s.values)
}

// splitLabel splits "<label><whitespace><value>" at the last whitespace run.
func splitLabel(line string) (label, value string, ok bool) {
	i := strings.LastIndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return "", "", false
	}
	return strings.TrimRightFunc(line[:i], unicode.IsSpace), line[i+1:], true
}

// ParseSummary tokenizes a summary_statistics stream.  Each line is read as
// "<label><whitespace><value>"; lines whose label is not a recognized key
// (section headers, thresholded variants such as "Number of contigs > 10000
// bp") are ignored.  The first occurrence of a key wins.  A recognized key
// with a non-numeric value is an error.
func ParseSummary(r *bufio.Scanner) (Summary, error) {
	s := Summary{values: make(map[string]float64)}
	lineIdx := 0
	for r.Scan() {
		lineIdx++
		line := strings.TrimSpace(r.Text())
		label, value, ok := splitLabel(line)
		if !ok || !summaryKeySet[label] {
			continue
		}
		if _, seen := s.values[label]; seen {
			continue
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Summary{}, errors.Wrapf(err, "line %d: value of %q", lineIdx, label)
		}
		s.values[label] = v
	}
	if err := r.Err(); err != nil {
		return Summary{}, errors.Wrap(err, "read summary")
	}
	return s, nil
}

// ReadSummary loads a summary_statistics file.  Unlike the error BEDs, a
// missing summary file is an error.
func ReadSummary(ctx context.Context, path string) (s Summary, err error) {
	in, err := util.Open(ctx, path)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if s, err = ParseSummary(bufio.NewScanner(in.Reader())); err != nil {
		return Summary{}, errors.Wrapf(err, "%s", path)
	}
	return s, nil
}
