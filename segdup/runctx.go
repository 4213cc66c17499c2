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
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/grailbio/base/log"
)

// RunContext carries per-run state that every stage of a comparison needs.
// It is created once at startup and passed explicitly; nothing in this
// package reads the scratch location from the environment.
type RunContext struct {
	// TempDir is a scratch directory private to this run.
	TempDir  string
	keepTemp bool
	seq      int64
}

// NewRunContext creates a private scratch directory under opts.TempDir
// (os.TempDir() if empty).
func NewRunContext(opts Opts) (*RunContext, error) {
	dir, err := os.MkdirTemp(opts.TempDir, "segdup")
	if err != nil {
		return nil, err
	}
	log.Debug.Printf("scratch directory: %s", dir)
	return &RunContext{TempDir: dir, keepTemp: opts.KeepTemp}, nil
}

// Path returns the location of a scratch file.
func (rc *RunContext) Path(name string) string {
	return filepath.Join(rc.TempDir, name)
}

// UniquePath returns a scratch file location that no other call on rc
// returns.  It is safe for concurrent use.
func (rc *RunContext) UniquePath(prefix, suffix string) string {
	n := atomic.AddInt64(&rc.seq, 1)
	return rc.Path(fmt.Sprintf("%s_%d%s", prefix, n, suffix))
}

// Cleanup removes the scratch directory unless the run was asked to keep it.
func (rc *RunContext) Cleanup() error {
	if rc.keepTemp {
		log.Printf("keeping intermediate files in %s", rc.TempDir)
		return nil
	}
	return os.RemoveAll(rc.TempDir)
}
