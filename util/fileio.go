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

// Package util holds small I/O helpers shared by the asmqc packages.
package util

import (
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/klauspost/compress/gzip"
)

// Input is an opened input file.  Gzipped files (by extension) are
// decompressed transparently.
type Input struct {
	f  file.File
	gz *gzip.Reader
	r  io.Reader
}

// Open opens path for sequential reading.  The path may be local or any
// scheme registered with grailbio/base/file.
func Open(ctx context.Context, path string) (*Input, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	in := &Input{f: f, r: f.Reader(ctx)}
	if fileio.DetermineType(path) == fileio.Gzip {
		if in.gz, err = gzip.NewReader(in.r); err != nil {
			_ = f.Close(ctx)
			return nil, errors.E(err, "gzip", path)
		}
		in.r = in.gz
	}
	return in, nil
}

// Reader returns the (decompressed) content stream.
func (in *Input) Reader() io.Reader {
	return in.r
}

// Close releases the input.
func (in *Input) Close(ctx context.Context) error {
	var err error
	if in.gz != nil {
		err = in.gz.Close()
	}
	if cerr := in.f.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Exists reports whether path can be stat'ed.  Errors other than "not found"
// are returned as is.
func Exists(ctx context.Context, path string) (bool, error) {
	if _, err := file.Stat(ctx, path); err != nil {
		if errors.Is(errors.NotExist, err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
