// Copyright 2019 the Liftover Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package chain provides an in-memory index over pairwise genome
// alignments in the chain format, and coordinate liftover between the
// two genomes of each alignment.
package chain

import (
	"sort"

	"github.com/genomebridge/liftover/internal/genomics"
)

// Block is a gapless run of aligned bases.  The run covers
// [Start1, End1] on the first genome and [Start2, End2] on the second
// and has the same length on both sides.
type Block struct {
	Start1, End1 int64
	Start2, End2 int64
}

// SeqPair holds the ordered blocks aligning one named sequence to
// another, together with the strand of each side.  Blocks appear in
// the order they were parsed, which the chain format guarantees is
// strictly increasing (and non-overlapping) along both genomes.
type SeqPair struct {
	Name1, Name2     string
	Strand1, Strand2 string
	Blocks           []Block
}

// Index maps sequence names to the alignments that involve them.  Each
// *SeqPair is registered under both of its names, so the one object is
// reachable, and during parsing grows, from either side.  An Index is
// immutable once Read returns and is safe for concurrent readers.
type Index struct {
	pairs map[string][]*SeqPair
}

// Pairs returns the alignments registered under name.  A name that
// appears in no alignment yields nil.
func (idx *Index) Pairs(name string) []*SeqPair {
	return idx.pairs[name]
}

// Sequences returns the sorted names of all indexed sequences.
func (idx *Index) Sequences() []string {
	names := make([]string, 0, len(idx.pairs))
	for name := range idx.pairs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Liftover translates a position on the named sequence to the
// corresponding position on the sequence it is aligned to.  The
// second return value reports whether any alignment block covers pos;
// names that appear in no alignment and positions that fall in
// alignment gaps yield false rather than an error.  When several
// alignments cover pos the first covering block found wins.
func (idx *Index) Liftover(name string, pos int64) (genomics.Position, bool) {
	for _, pair := range idx.pairs[name] {
		if name == pair.Name1 {
			i := lowerBoundByEnd1(pair.Blocks, pos)
			if i == len(pair.Blocks) {
				continue
			}
			b := pair.Blocks[i]
			if b.Start1 <= pos && pos <= b.End1 {
				if pair.Strand1 == pair.Strand2 {
					return genomics.Position{Name: pair.Name2, Pos: b.Start2 + (pos - b.Start1)}, true
				}
				return genomics.Position{Name: pair.Name2, Pos: b.Start2 + (b.End1 - 1 - pos)}, true
			}
		} else if name == pair.Name2 {
			i := upperBoundByEnd2(pair.Blocks, pos)
			if i == len(pair.Blocks) {
				continue
			}
			b := pair.Blocks[i]
			if b.Start2 <= pos && pos <= b.End2 {
				if pair.Strand1 == pair.Strand2 {
					return genomics.Position{Name: pair.Name1, Pos: b.Start1 + (pos - b.Start2)}, true
				}
				return genomics.Position{Name: pair.Name1, Pos: b.Start1 + (b.End2 - 1 - pos)}, true
			}
		}
	}
	return genomics.Position{}, false
}

// lowerBoundByEnd1 returns the index of the first block whose end on
// the first genome is not less than pos, or len(blocks) if there is no
// such block.
func lowerBoundByEnd1(blocks []Block, pos int64) int {
	return sort.Search(len(blocks), func(i int) bool { return blocks[i].End1 >= pos })
}

// upperBoundByEnd2 returns the index of the first block whose end on
// the second genome is strictly greater than pos, or len(blocks) if
// there is no such block.
func upperBoundByEnd2(blocks []Block, pos int64) int {
	return sort.Search(len(blocks), func(i int) bool { return blocks[i].End2 > pos })
}
