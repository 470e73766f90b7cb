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

package chain

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const headerKeyword = "chain"

// Header field positions as defined by the chain format.  The score,
// the genome sizes and the alignment id are not used here.
const (
	headerName1   = 2
	headerStrand1 = 4
	headerStart1  = 5
	headerName2   = 7
	headerStrand2 = 9
	headerStart2  = 10
	headerFields  = 11
)

// ParseError describes a malformed line in chain formatted input.
type ParseError struct {
	// Line is the 1-based number of the offending line.
	Line int
	// Msg describes what was wrong with it.
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("chain: line %d: %s", e.Line, e.Msg)
}

func parseErrorf(line int, format string, args ...interface{}) error {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Read parses chain formatted text from r and returns an index over
// every alignment it describes.  Blank lines and lines starting with
// '#' are skipped.  Each chain ends implicitly at the next header or
// at the end of the input.  Any structural problem aborts the parse
// with a *ParseError; no partial index is returned.
func Read(r io.Reader) (*Index, error) {
	idx := &Index{pairs: make(map[string][]*SeqPair)}

	var (
		pair       *SeqPair
		cur1, cur2 int64
	)

	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if fields[0] == headerKeyword {
			if len(fields) < headerFields {
				return nil, parseErrorf(n, "header has %d fields, want at least %d", len(fields), headerFields)
			}
			start1, err := strconv.ParseInt(fields[headerStart1], 10, 64)
			if err != nil {
				return nil, parseErrorf(n, "parsing start on first genome: %v", err)
			}
			start2, err := strconv.ParseInt(fields[headerStart2], 10, 64)
			if err != nil {
				return nil, parseErrorf(n, "parsing start on second genome: %v", err)
			}

			pair = &SeqPair{
				Name1:   fields[headerName1],
				Name2:   fields[headerName2],
				Strand1: fields[headerStrand1],
				Strand2: fields[headerStrand2],
			}
			// One shared object, reachable from both names.
			idx.pairs[pair.Name1] = append(idx.pairs[pair.Name1], pair)
			if pair.Name2 != pair.Name1 {
				idx.pairs[pair.Name2] = append(idx.pairs[pair.Name2], pair)
			}
			cur1, cur2 = start1, start2
			continue
		}

		if pair == nil {
			return nil, parseErrorf(n, "alignment data before any %q header", headerKeyword)
		}

		size, gap1, gap2, err := parseRun(fields)
		if err != nil {
			return nil, parseErrorf(n, "%v", err)
		}

		end1, end2 := cur1+size, cur2+size
		pair.Blocks = append(pair.Blocks, Block{cur1, end1, cur2, end2})
		// The +1 step-over past each gap matches the reference
		// implementation; indexes built elsewhere with the same
		// convention depend on it.
		cur1 = end1 + gap1 + 1
		cur2 = end2 + gap2 + 1
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %v", err)
	}
	return idx, nil
}

// parseRun decodes one alignment run: either "size gap1 gap2" or, for
// the final run of a chain, a bare "size" with no trailing gaps.
func parseRun(fields []string) (size, gap1, gap2 int64, err error) {
	switch len(fields) {
	case 3:
		var values [3]int64
		for i, f := range fields {
			values[i], err = strconv.ParseInt(f, 10, 64)
			if err != nil {
				return 0, 0, 0, fmt.Errorf("parsing run field %d: %v", i, err)
			}
		}
		return values[0], values[1], values[2], nil
	case 1:
		size, err = strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return 0, 0, 0, fmt.Errorf("parsing run size: %v", err)
		}
		return size, 0, 0, nil
	default:
		return 0, 0, 0, fmt.Errorf("run has %d fields, want 1 or 3", len(fields))
	}
}
