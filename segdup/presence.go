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

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/grailbio/base/bitset"
	"github.com/grailbio/base/errors"
)

// PresenceSet records which line ids of one record file take part in a
// confirmed match.
type PresenceSet interface {
	// Mark adds lineID to the set.
	Mark(lineID int) error
	// Has reports whether lineID was marked.
	Has(lineID int) bool
	// Count returns the number of distinct marked line ids.
	Count() int
}

// NewPresenceSet returns a bit-vector set for line ids 1..nLines when the
// line count is known, or a sparse set when nLines < 0.
func NewPresenceSet(nLines int) PresenceSet {
	if nLines < 0 {
		return &sparsePresence{bm: roaring.New()}
	}
	nWord := (nLines + bitset.BitsPerWord) / bitset.BitsPerWord
	return &densePresence{bits: make([]uintptr, nWord), nLines: nLines}
}

// densePresence is a fixed-size bit arena indexed by line id.  Bit 0 is
// unused.
type densePresence struct {
	bits   []uintptr
	nLines int
	count  int
}

func (s *densePresence) Mark(lineID int) error {
	if lineID < 1 || lineID > s.nLines {
		return errors.E(errors.Invalid, fmt.Sprintf("line id %d out of range [1, %d]", lineID, s.nLines))
	}
	if !bitset.Test(s.bits, lineID) {
		bitset.Set(s.bits, lineID)
		s.count++
	}
	return nil
}

func (s *densePresence) Has(lineID int) bool {
	if lineID < 1 || lineID > s.nLines {
		return false
	}
	return bitset.Test(s.bits, lineID)
}

func (s *densePresence) Count() int { return s.count }

// sparsePresence is used when ids arrive without a prior counting pass.
type sparsePresence struct {
	bm *roaring.Bitmap
}

func (s *sparsePresence) Mark(lineID int) error {
	if lineID < 1 || int64(lineID) > int64(^uint32(0)) {
		return errors.E(errors.Invalid, fmt.Sprintf("line id %d out of range", lineID))
	}
	s.bm.Add(uint32(lineID))
	return nil
}

func (s *sparsePresence) Has(lineID int) bool {
	if lineID < 1 || int64(lineID) > int64(^uint32(0)) {
		return false
	}
	return s.bm.Contains(uint32(lineID))
}

func (s *sparsePresence) Count() int { return int(s.bm.GetCardinality()) }

// MarkConfirmed records both sides of every confirmed pair.
func MarkConfirmed(confirmed []MatchPair, a, b PresenceSet) error {
	for _, p := range confirmed {
		if err := a.Mark(p.LineA); err != nil {
			return errors.E(err, "method A")
		}
		if err := b.Mark(p.LineB); err != nil {
			return errors.E(err, "method B")
		}
	}
	return nil
}
