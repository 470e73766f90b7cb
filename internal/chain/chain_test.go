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
	"strings"
	"testing"

	"github.com/genomebridge/liftover/internal/genomics"
)

const (
	simpleChain = `chain 100 chr1 1000 + 0 100 chr2 1000 + 0 100 1
100
`
	gappedChain = `chain 100 chr1 1000 + 0 111 chr2 1000 + 0 121 1
50 10 20
50
`
	reverseChain = `chain 100 chr1 1000 + 100 150 chr2 1000 - 300 350 1
50
`
)

func mustRead(t *testing.T, input string) *Index {
	t.Helper()
	idx, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read() returned error: %v", err)
	}
	return idx
}

func TestLiftover(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		query genomics.Position
		want  genomics.Position
	}{
		{"simple forward", simpleChain, genomics.Position{Name: "chr1", Pos: 50}, genomics.Position{Name: "chr2", Pos: 50}},
		{"simple reverse role", simpleChain, genomics.Position{Name: "chr2", Pos: 50}, genomics.Position{Name: "chr1", Pos: 50}},
		{"block start", simpleChain, genomics.Position{Name: "chr1", Pos: 0}, genomics.Position{Name: "chr2", Pos: 0}},
		{"block end", simpleChain, genomics.Position{Name: "chr1", Pos: 100}, genomics.Position{Name: "chr2", Pos: 100}},
		{"gapped second block", gappedChain, genomics.Position{Name: "chr1", Pos: 61}, genomics.Position{Name: "chr2", Pos: 71}},
		{"gapped second block from other side", gappedChain, genomics.Position{Name: "chr2", Pos: 75}, genomics.Position{Name: "chr1", Pos: 65}},
		{"cross strand", reverseChain, genomics.Position{Name: "chr1", Pos: 120}, genomics.Position{Name: "chr2", Pos: 329}},
		{"cross strand from other side", reverseChain, genomics.Position{Name: "chr2", Pos: 329}, genomics.Position{Name: "chr1", Pos: 120}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			idx := mustRead(t, tc.input)
			got, ok := idx.Liftover(tc.query.Name, tc.query.Pos)
			if !ok {
				t.Fatalf("Liftover(%s): no mapping, want %s", tc.query, tc.want)
			}
			if got != tc.want {
				t.Fatalf("Liftover(%s): got %s, want %s", tc.query, got, tc.want)
			}
		})
	}
}

func TestLiftover_Unmapped(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		query genomics.Position
	}{
		{"unknown sequence", simpleChain, genomics.Position{Name: "chrX", Pos: 50}},
		{"past last block", gappedChain, genomics.Position{Name: "chr1", Pos: 112}},
		{"past last block on second genome", gappedChain, genomics.Position{Name: "chr2", Pos: 122}},
		{"inside gap", gappedChain, genomics.Position{Name: "chr1", Pos: 55}},
		{"inside gap on second genome", gappedChain, genomics.Position{Name: "chr2", Pos: 60}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			idx := mustRead(t, tc.input)
			if got, ok := idx.Liftover(tc.query.Name, tc.query.Pos); ok {
				t.Fatalf("Liftover(%s): got %s, want no mapping", tc.query, got)
			}
		})
	}
}

func TestLiftover_SameStrandRoundTrip(t *testing.T) {
	idx := mustRead(t, gappedChain)
	for _, b := range idx.Pairs("chr1")[0].Blocks {
		for p := b.Start1; p < b.End1; p++ {
			got, ok := idx.Liftover("chr1", p)
			if !ok {
				t.Fatalf("Liftover(chr1:%d): no mapping", p)
			}
			if want := b.Start2 + (p - b.Start1); got.Pos != want || got.Name != "chr2" {
				t.Fatalf("Liftover(chr1:%d): got %s, want chr2:%d", p, got, want)
			}
			back, ok := idx.Liftover(got.Name, got.Pos)
			if !ok || back.Name != "chr1" || back.Pos != p {
				t.Fatalf("Liftover(%s): got %s (%t), want chr1:%d", got, back, ok, p)
			}
		}
	}
}

func TestLiftover_CrossStrandRoundTrip(t *testing.T) {
	idx := mustRead(t, reverseChain)
	b := idx.Pairs("chr1")[0].Blocks[0]
	for p := b.Start1; p < b.End1; p++ {
		got, ok := idx.Liftover("chr1", p)
		if !ok {
			t.Fatalf("Liftover(chr1:%d): no mapping", p)
		}
		// The reflected coordinate counts from the far end of the block.
		if want := b.Start2 + (b.End1 - 1 - p); got.Pos != want || got.Name != "chr2" {
			t.Fatalf("Liftover(chr1:%d): got %s, want chr2:%d", p, got, want)
		}
		back, ok := idx.Liftover(got.Name, got.Pos)
		if !ok || back.Name != "chr1" || back.Pos != p {
			t.Fatalf("Liftover(%s): got %s (%t), want chr1:%d", got, back, ok, p)
		}
	}
}

func TestLiftover_FirstCoveringAlignmentWins(t *testing.T) {
	// chr1 takes role A against chr2 and role B against chr3.
	input := `chain 100 chr1 1000 + 0 100 chr2 1000 + 0 100 1
100
chain 100 chr3 1000 + 500 600 chr1 1000 + 200 300 2
100
`
	idx := mustRead(t, input)

	if got, ok := idx.Liftover("chr1", 250); !ok || got.Name != "chr3" || got.Pos != 550 {
		t.Errorf("Liftover(chr1:250): got %v (%t), want chr3:550", got, ok)
	}
	if got, ok := idx.Liftover("chr1", 50); !ok || got.Name != "chr2" || got.Pos != 50 {
		t.Errorf("Liftover(chr1:50): got %v (%t), want chr2:50", got, ok)
	}
	if got, ok := idx.Liftover("chr3", 550); !ok || got.Name != "chr1" || got.Pos != 250 {
		t.Errorf("Liftover(chr3:550): got %v (%t), want chr1:250", got, ok)
	}
}

func TestSequences(t *testing.T) {
	idx := mustRead(t, gappedChain)
	got := idx.Sequences()
	want := []string{"chr1", "chr2"}
	if len(got) != len(want) {
		t.Fatalf("Sequences(): got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sequences(): got %v, want %v", got, want)
		}
	}
}
