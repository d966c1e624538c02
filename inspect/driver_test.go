package inspect_test

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/grailbio/ebwt/index"
	"github.com/grailbio/ebwt/index/indextest"
	"github.com/grailbio/ebwt/inspect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var twoRefs = []indextest.Seq{
	{Name: "chr1", Bases: "ACGTACGTAC"},
	{Name: "chr2", Bases: "GGCCN"},
}

func run(t *testing.T, idx index.Index, opts inspect.Opts) string {
	t.Helper()
	buf := bytes.Buffer{}
	require.NoError(t, inspect.Run(idx, &buf, opts))
	return buf.String()
}

func TestNamesOnly(t *testing.T) {
	idx := indextest.New(twoRefs, indextest.DefaultOpts)
	got := run(t, idx, inspect.Opts{NamesOnly: true})
	assert.Equal(t, "chr1\nchr2\n", got)
}

func TestDefaultMode(t *testing.T) {
	idx := indextest.New(twoRefs, indextest.DefaultOpts)
	got := run(t, idx, inspect.DefaultOpts)
	assert.Equal(t, ">chr1\nACGTACGTAC\n>chr2\nGGCCN\n", got)
}

func TestWrappedOutput(t *testing.T) {
	idx := indextest.New(twoRefs, indextest.DefaultOpts)
	got := run(t, idx, inspect.Opts{Across: 4})
	assert.Equal(t, ">chr1\nACGT\nACGT\nAC\n>chr2\nGGCC\nN\n", got)
}

func TestUnwrappedOutput(t *testing.T) {
	idx := indextest.New(twoRefs, indextest.DefaultOpts)
	got := run(t, idx, inspect.Opts{Across: 0})
	assert.Equal(t, ">chr1\nACGTACGTAC\n>chr2\nGGCCN\n", got)
}

func TestTraversalMode(t *testing.T) {
	idx := indextest.New(twoRefs, indextest.DefaultOpts)
	got := run(t, idx, inspect.Opts{Across: 60, RefFromIndex: true})
	assert.Equal(t, ">chr1\nACGTACGTAC\n>chr2\nGGCCN\n", got)
}

func randomBases(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = "ACGT"[r.Intn(4)]
	}
	return string(b)
}

func TestCrossPathAgreement(t *testing.T) {
	// Without suppressed positions both decode paths must agree exactly.
	r := rand.New(rand.NewSource(1))
	seqs := []indextest.Seq{
		{Name: "s1", Bases: randomBases(r, 1)},
		{Name: "s2", Bases: randomBases(r, 61)},
		{Name: "s3", Bases: randomBases(r, 130)},
	}
	idx := indextest.New(seqs, indextest.DefaultOpts)
	packed := run(t, idx, inspect.Opts{Across: 60})
	traversed := run(t, idx, inspect.Opts{Across: 60, RefFromIndex: true})
	assert.Equal(t, packed, traversed)
}

func TestPackedRoundTrip(t *testing.T) {
	// A reference long enough to need several decode windows (the window is
	// across*1000 bases) survives the encode/decode round trip exactly.
	r := rand.New(rand.NewSource(2))
	want := randomBases(r, 2500)
	idx := indextest.New([]indextest.Seq{{Name: "big", Bases: want}}, indextest.DefaultOpts)
	got := run(t, idx, inspect.Opts{Across: 1})
	got = strings.TrimPrefix(got, ">big\n")
	assert.Equal(t, want, strings.ReplaceAll(got, "\n", ""))
}

func TestColorspaceLengths(t *testing.T) {
	// A colorspace reference carries one synthetic leading base: the stored
	// length is one short of the emitted sequence.
	opts := indextest.DefaultOpts
	opts.Color = true
	idx := indextest.New([]indextest.Seq{{Name: "c1", Bases: "TACGTA"}}, opts)
	assert.Equal(t, []int{5}, idx.RefLengths())
	got := run(t, idx, inspect.Opts{Across: 60})
	assert.Equal(t, ">c1\nTACGTA\n", got)
	got = run(t, idx, inspect.Opts{Across: 60, RefFromIndex: true})
	assert.Equal(t, ">c1\nTACGTA\n", got)
}

func TestSummaryOutput(t *testing.T) {
	idx := indextest.New(twoRefs, indextest.DefaultOpts)
	got := run(t, idx, inspect.Opts{SummaryOnly: true})
	want := "Flags\t1\n" +
		"Reverse flags\t5\n" +
		"Colorspace\t0\n" +
		"2.0-compatible\t0\n" +
		"SA-Sample\t1 in 32\n" +
		"FTab-Chars\t10\n" +
		"Sequence-1\tchr1\t10\n" +
		"Sequence-2\tchr2\t5\n"
	assert.Equal(t, want, got)
}

func TestModesAreMutuallyExclusive(t *testing.T) {
	idx := indextest.New(twoRefs, indextest.DefaultOpts)
	for _, opts := range []inspect.Opts{
		{NamesOnly: true, SummaryOnly: true},
		{NamesOnly: true, RefFromIndex: true},
		{SummaryOnly: true, RefFromIndex: true},
	} {
		err := inspect.Run(idx, &bytes.Buffer{}, opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	}
}

// badStretch corrupts the first decoded symbol of every stretch.
type badStretch struct {
	index.Index
}

func (b badStretch) GetStretch(dst []byte, ref, refOff, count int) (int, error) {
	off, err := b.Index.GetStretch(dst, ref, refOff, count)
	if err == nil && count > 0 {
		dst[off] = 9
	}
	return off, err
}

func TestCorruptSymbolAborts(t *testing.T) {
	idx := badStretch{indextest.New(twoRefs, indextest.DefaultOpts)}
	err := inspect.Run(idx, &bytes.Buffer{}, inspect.DefaultOpts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "corrupt index")
}
