// Package indextest builds small fully functional in-memory indexes from
// sequence literals, for use as a substitutable engine in tests.  Runs of N
// (or any non-ACGT character) are excluded from the fragment table and the
// packed store, so they read back as unmapped joined positions, exactly the
// shape a real index gives ambiguous stretches.
package indextest

import (
	"github.com/grailbio/ebwt/index"
	"github.com/grailbio/ebwt/index/indexfile"
)

// Seq is one reference handed to New.
type Seq struct {
	Name  string
	Bases string
}

// Opts carries the index metadata recorded by New.
type Opts struct {
	Color         bool
	EntireReverse bool
	Flags         int32
	ReverseFlags  int32
	OffRate       int
	FtabChars     int
}

// DefaultOpts mirrors common small-genome index parameters.
var DefaultOpts = Opts{
	Flags:        1,
	ReverseFlags: 5,
	OffRate:      5,
	FtabChars:    10,
}

// New builds an index over seqs.  It panics on malformed input; it is test
// support, not a production indexer.
func New(seqs []Seq, opts Opts) *indexfile.Index {
	var (
		names  []string
		lens   []int
		frags  []indexfile.Fragment
		packed []byte
		nBases int
		joined int
	)
	appendBase := func(code byte) {
		if nBases%4 == 0 {
			packed = append(packed, 0)
		}
		packed[nBases>>2] |= code << (uint(nBases&3) * 2)
		nBases++
	}
	for r, s := range seqs {
		names = append(names, s.Name)
		n := len(s.Bases)
		if opts.Color {
			n-- // the leading base is synthetic, not part of the stored length
		}
		lens = append(lens, n)
		runStart := -1
		flushRun := func(end int) {
			if runStart < 0 {
				return
			}
			frags = append(frags, indexfile.Fragment{
				JoinedOff: int64(joined + runStart),
				Len:       int64(end - runStart),
				Ref:       int32(r),
				RefOff:    int64(runStart),
				PackedOff: int64(nBases) - int64(end-runStart),
			})
			runStart = -1
		}
		for i := 0; i < len(s.Bases); i++ {
			code, ok := baseCode(s.Bases[i])
			if !ok {
				flushRun(i)
				continue
			}
			if runStart < 0 {
				runStart = i
			}
			appendBase(code)
		}
		flushRun(len(s.Bases))
		joined += len(s.Bases)
	}
	meta := index.Metadata{
		Flags:         opts.Flags,
		ReverseFlags:  opts.ReverseFlags,
		Color:         opts.Color,
		EntireReverse: opts.EntireReverse,
		OffRate:       opts.OffRate,
		FtabChars:     opts.FtabChars,
	}
	x, err := indexfile.New(meta, names, lens, joined, frags, packed)
	if err != nil {
		panic(err)
	}
	return x
}

func baseCode(c byte) (byte, bool) {
	switch c {
	case 'A', 'a':
		return index.BaseA, true
	case 'C', 'c':
		return index.BaseC, true
	case 'G', 'g':
		return index.BaseG, true
	case 'T', 't':
		return index.BaseT, true
	}
	return index.BaseN, false
}
