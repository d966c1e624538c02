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
package main

// See doc.go for documentation.

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/ebwt/index/indexfile"
	"github.com/grailbio/ebwt/inspect"
)

var (
	across  = flag.Int("across", inspect.DefaultOpts.Across, "Number of characters across in FASTA output; 0 or less disables wrapping")
	names   = flag.Bool("names", false, "Print reference sequence names only")
	summary = flag.Bool("summary", false, "Print summary incl. ref names, lengths, index properties")
	ebwtRef = flag.Bool("ebwt-ref", false, "Reconstruct reference from the index text (slow, preserves colors)")
	verbose = flag.Bool("verbose", false, "Verbose output (for debugging)")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] indexpath\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "By default, prints FASTA records of the indexed nucleotide sequences.\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("exactly one index path is required, got %q", strings.Join(flag.Args(), " "))
	}
	if *across < -1 {
		flag.Usage()
		log.Fatalf("invalid -across value %d: use a positive width, or 0 to disable wrapping", *across)
	}
	path := flag.Arg(0)
	if *verbose {
		log.Printf("input index: %q", path)
	}
	ctx := vcontext.Background()
	idx, err := indexfile.Load(ctx, path)
	if err != nil {
		fail(err)
	}
	opts := inspect.Opts{
		Across:       *across,
		NamesOnly:    *names,
		SummaryOnly:  *summary,
		RefFromIndex: *ebwtRef,
		Verbose:      *verbose,
	}
	if err := inspect.Run(idx, os.Stdout, opts); err != nil {
		fail(err)
	}
}

// fail echoes the full invocation before aborting, so failures in pipelines
// can be reproduced from the log alone.
func fail(err error) {
	log.Error.Printf("command: %s", strings.Join(os.Args, " "))
	log.Fatalf("%v", err)
}
