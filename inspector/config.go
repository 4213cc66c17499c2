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
	"github.com/pelletier/go-toml/v2"
)

// LoadBatchOpts overlays the TOML file at path onto opts.  Keys absent from
// the file keep their current values; unknown keys are an error.  Example:
//
//	input_dir = "s3://bucket/assembly_qc_files"
//	output_dir = "/tmp/asm_errors"
//	haplotypes = ["hap1", "hap2"]
//	parallelism = 16
//	save_detailed_errors = true
func LoadBatchOpts(ctx context.Context, path string, opts *BatchOpts) (err error) {
	in, err := util.Open(ctx, path)
	if err != nil {
		return errors.E(err, "open config", path)
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	// Decoding may write into the existing backing array.
	opts.Haplotypes = append([]string(nil), opts.Haplotypes...)
	dec := toml.NewDecoder(in.Reader())
	dec.DisallowUnknownFields()
	if err = dec.Decode(opts); err != nil {
		return errors.E(errors.Invalid, "parse config", path, err)
	}
	return nil
}
