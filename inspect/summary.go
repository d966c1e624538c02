package inspect

import (
	"fmt"
	"io"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/ebwt/index"
)

// SeqInfo is one (name, length) row of a summary.  Length includes the
// colorspace adjustment.
type SeqInfo struct {
	Name string
	Len  int
}

// Summary is an immutable snapshot of index-level metadata.
type Summary struct {
	Flags         int32
	ReverseFlags  int32
	Color         bool
	EntireReverse bool
	OffRate       int
	FtabChars     int
	Seqs          []SeqInfo
}

// Summarize extracts a Summary from the index without reconstructing any
// sequence.
func Summarize(idx index.Index) (Summary, error) {
	md := idx.Metadata()
	names := idx.RefNames()
	lens := idx.RefLengths()
	if idx.NumRefs() != len(names) || len(names) != len(lens) {
		return Summary{}, errors.E("corrupt index:", strconv.Itoa(idx.NumRefs()), "references but",
			strconv.Itoa(len(names)), "names and", strconv.Itoa(len(lens)), "lengths")
	}
	s := Summary{
		Flags:         md.Flags,
		ReverseFlags:  md.ReverseFlags,
		Color:         md.Color,
		EntireReverse: md.EntireReverse,
		OffRate:       md.OffRate,
		FtabChars:     md.FtabChars,
		Seqs:          make([]SeqInfo, 0, len(names)),
	}
	for i, name := range names {
		n := lens[i]
		if md.Color {
			n++
		}
		s.Seqs = append(s.Seqs, SeqInfo{Name: name, Len: n})
	}
	return s, nil
}

// WriteSummary renders s as a tab-separated table with fixed row labels.
func WriteSummary(w io.Writer, s Summary) error {
	tw := tsv.NewWriter(w)
	tw.WriteString("Flags")
	tw.WriteInt64(int64(s.Flags))
	if err := tw.EndLine(); err != nil {
		return err
	}
	tw.WriteString("Reverse flags")
	tw.WriteInt64(int64(s.ReverseFlags))
	if err := tw.EndLine(); err != nil {
		return err
	}
	tw.WriteString("Colorspace")
	tw.WriteString(zeroOne(s.Color))
	if err := tw.EndLine(); err != nil {
		return err
	}
	tw.WriteString("2.0-compatible")
	tw.WriteString(zeroOne(s.EntireReverse))
	if err := tw.EndLine(); err != nil {
		return err
	}
	tw.WriteString("SA-Sample")
	tw.WriteString(fmt.Sprintf("1 in %d", 1<<uint(s.OffRate)))
	if err := tw.EndLine(); err != nil {
		return err
	}
	tw.WriteString("FTab-Chars")
	tw.WriteInt64(int64(s.FtabChars))
	if err := tw.EndLine(); err != nil {
		return err
	}
	for i, sq := range s.Seqs {
		tw.WriteString(fmt.Sprintf("Sequence-%d", i+1))
		tw.WriteString(sq.Name)
		tw.WriteInt64(int64(sq.Len))
		if err := tw.EndLine(); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func zeroOne(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
