package inspect_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/grailbio/ebwt/inspect"
	"github.com/grailbio/testutil/expect"
)

func TestWriteFasta(t *testing.T) {
	tests := []struct {
		name  string
		seq   string
		width int
		want  string
	}{
		{"chr1", "ACGTACGTAC", 4, ">chr1\nACGT\nACGT\nAC\n"},
		{"chr1", "ACGTACGTAC", 0, ">chr1\nACGTACGTAC\n"},
		{"chr1", "ACGTACGTAC", -3, ">chr1\nACGTACGTAC\n"},
		{"chr1", "ACGTACGT", 4, ">chr1\nACGT\nACGT\n"},
		{"chr1", "ACGTACGTAC", 60, ">chr1\nACGTACGTAC\n"},
		{"chr2 extra", "A", 1, ">chr2 extra\nA\n"},
	}
	for _, tt := range tests {
		buf := bytes.Buffer{}
		expect.NoError(t, inspect.WriteFasta(&buf, tt.name, tt.seq, tt.width))
		expect.EQ(t, buf.String(), tt.want)
	}
}

func TestWriteFastaLongSequence(t *testing.T) {
	seq := strings.Repeat("ACGT", 50) // 200 bases
	buf := bytes.Buffer{}
	expect.NoError(t, inspect.WriteFasta(&buf, "long", seq, 60))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	expect.EQ(t, len(lines), 5) // header + 60+60+60+20
	for _, line := range lines[1:4] {
		expect.EQ(t, len(line), 60)
	}
	expect.EQ(t, len(lines[4]), 20)
	expect.EQ(t, strings.Join(lines[1:], ""), seq)
}
