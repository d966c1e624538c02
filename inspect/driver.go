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
package inspect

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/ebwt/index"
)

// Opts selects the output mode.  NamesOnly, SummaryOnly and RefFromIndex are
// mutually exclusive; Verbose is orthogonal.
type Opts struct {
	// Across is the number of characters per FASTA output line; zero or less
	// emits each sequence unwrapped.
	Across int
	// NamesOnly prints one reference name per line and nothing else.
	NamesOnly bool
	// SummaryOnly prints the index parameter and sequence table.
	SummaryOnly bool
	// RefFromIndex reconstructs references by walking the index's joined text
	// instead of the packed store.  Slower, but preserves whatever symbols
	// the index text carries (colors included).
	RefFromIndex bool
	// Verbose enables diagnostic logging.
	Verbose bool
}

// DefaultOpts holds the default output mode: FASTA records from the packed
// store, wrapped at 60 characters.
var DefaultOpts = Opts{Across: 60}

// Run inspects idx and writes the requested output to w.  Exactly one output
// mode executes per invocation.
func Run(idx index.Index, w io.Writer, opts Opts) error {
	modes := 0
	for _, set := range []bool{opts.NamesOnly, opts.SummaryOnly, opts.RefFromIndex} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return fmt.Errorf("inspect: the names, summary and index-reconstruction modes are mutually exclusive")
	}
	switch {
	case opts.NamesOnly:
		return writeNames(idx, w)
	case opts.SummaryOnly:
		s, err := Summarize(idx)
		if err != nil {
			return err
		}
		return WriteSummary(w, s)
	case opts.RefFromIndex:
		if opts.Verbose {
			log.Printf("reconstructing %d references from the index text", idx.NumRefs())
		}
		return reconstructFromIndex(idx, func(name, seq string) error {
			return WriteFasta(w, name, seq, opts.Across)
		})
	}

	names := idx.RefNames()
	lens := idx.RefLengths()
	if idx.NumRefs() != len(names) || len(names) != len(lens) {
		return errors.E("corrupt index:", strconv.Itoa(idx.NumRefs()), "references but",
			strconv.Itoa(len(names)), "names and", strconv.Itoa(len(lens)), "lengths")
	}
	color := idx.Metadata().Color
	lw := &lineWriter{w: bufio.NewWriter(w), width: opts.Across}
	for i, name := range names {
		length := lens[i]
		if color {
			length++ // colorspace references carry one extra leading base
		}
		if err := writeRefFromPacked(idx, i, name, length, lw, opts); err != nil {
			return err
		}
	}
	return lw.w.Flush()
}

func writeNames(idx index.Index, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, name := range idx.RefNames() {
		bw.WriteString(name)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
