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

	"github.com/grailbio/asmqc/util"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// File names inside a haplotype directory.
const (
	SummaryFileName    = "summary_statistics"
	SmallScaleFileName = "small_scale_error.bed"
	StructuralFileName = "structural_error.bed"
)

// Unit is one sample haplotype: the directory <input>/<NN_sample>/<hap>.
type Unit struct {
	Sample    string
	Haplotype string
	Dir       string
}

func (u Unit) String() string {
	return u.Sample + " " + u.Haplotype
}

// UnitResult holds the calls and statistics of one unit.
type UnitResult struct {
	Stats      UnitStats
	Small      []ErrorInterval
	Structural []ErrorInterval
}

// AnalyzeUnit reads and summarizes one unit.  A missing summary_statistics
// file fails the unit; a missing error BED counts as no calls of that class.
func AnalyzeUnit(ctx context.Context, u Unit) (res UnitResult, err error) {
	summaryPath := file.Join(u.Dir, SummaryFileName)
	ok, err := util.Exists(ctx, summaryPath)
	if err != nil {
		return res, errors.E(err, u.String())
	}
	if !ok {
		return res, errors.E(errors.NotExist, u.String(), "missing input", summaryPath)
	}
	summary, err := ReadSummary(ctx, summaryPath)
	if err != nil {
		return res, errors.E(err, u.String())
	}
	for _, key := range []string{KeyTotalLength, KeyQV} {
		if _, ok := summary.Get(key); !ok {
			log.Printf("warning: %s: %q missing from %s, using 0", u, key, SummaryFileName)
		}
	}
	if res.Small, err = ReadSmallScaleErrors(ctx, file.Join(u.Dir, SmallScaleFileName)); err != nil {
		return res, errors.E(err, u.String())
	}
	if res.Structural, err = ReadStructuralErrors(ctx, file.Join(u.Dir, StructuralFileName)); err != nil {
		return res, errors.E(err, u.String())
	}
	if res.Stats, err = ComputeStats(res.Small, res.Structural, summary); err != nil {
		return res, errors.E(err, u.String())
	}
	res.Stats.Sample = u.Sample
	res.Stats.Haplotype = u.Haplotype
	log.Debug.Printf("%s: %d small-scale, %d structural errors, %d non-redundant bp",
		u, res.Stats.Small.Total, res.Stats.Structural.Total, res.Stats.Combined.TotalNonRedundantBP)
	return res, nil
}
