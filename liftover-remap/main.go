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

// This binary translates coordinates offline, without a server.  It
// reads "sequence position" pairs from standard input (or arguments of
// the form sequence:position) and writes one tab-separated mapping per
// line, with "unmapped" for positions no alignment covers.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/profile"

	"github.com/genomebridge/liftover/internal/chain"
	"github.com/genomebridge/liftover/internal/source"
)

var (
	chainPath = flag.String("chain", "", "chain file (local path or gs:// URL)")

	cpuProfile = flag.Bool("cpuprofile", false, "write a CPU profile")
	memProfile = flag.Bool("memprofile", false, "write a memory profile")
)

func main() {
	flag.Parse()

	if *chainPath == "" {
		log.Fatalf("You must specify an alignment file with -chain.")
	}

	switch {
	case *cpuProfile:
		defer profile.Start(profile.CPUProfile).Stop()
	case *memProfile:
		defer profile.Start(profile.MemProfile).Stop()
	}

	r, err := source.Open(context.Background(), *chainPath)
	if err != nil {
		log.Fatalf("Failed to open chain file: %v", err)
	}
	index, err := chain.Read(r)
	if err != nil {
		log.Fatalf("Failed to build chain index: %v", err)
	}
	r.Close()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	if args := flag.Args(); len(args) > 0 {
		for _, arg := range args {
			i := strings.LastIndex(arg, ":")
			if i <= 0 || i == len(arg)-1 {
				log.Fatalf("Bad coordinate %q: want the form sequence:position", arg)
			}
			position, err := strconv.ParseInt(arg[i+1:], 10, 64)
			if err != nil {
				log.Fatalf("Bad coordinate %q: %v", arg, err)
			}
			remap(w, index, arg[:i], position)
		}
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	for line := 1; scanner.Scan(); line++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			log.Fatalf("Line %d: want sequence and position fields", line)
		}
		position, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			log.Fatalf("Line %d: parsing position: %v", line, err)
		}
		remap(w, index, fields[0], position)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
}

func remap(w *bufio.Writer, index *chain.Index, name string, position int64) {
	target, ok := index.Liftover(name, position)
	if !ok {
		fmt.Fprintf(w, "%s\t%d\tunmapped\n", name, position)
		return
	}
	fmt.Fprintf(w, "%s\t%d\t%s\t%d\n", name, position, target.Name, target.Pos)
}
