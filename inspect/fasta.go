package inspect

import (
	"bufio"
	"io"
)

// WriteFasta writes one FASTA record: a ">"+name header line, then the
// sequence wrapped at width characters per line.  A width of zero or less
// emits the whole sequence on a single line.
func WriteFasta(w io.Writer, name, seq string, width int) error {
	bw := bufio.NewWriter(w)
	bw.WriteByte('>')
	bw.WriteString(name)
	bw.WriteByte('\n')
	if width <= 0 {
		bw.WriteString(seq)
		bw.WriteByte('\n')
		return bw.Flush()
	}
	for i := 0; i < len(seq); i += width {
		end := i + width
		if end > len(seq) {
			end = len(seq)
		}
		bw.WriteString(seq[i:end])
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// lineWriter wraps sequence characters at a fixed width as they stream out,
// so the packed-store path never holds a whole reference in memory.  Write
// errors are sticky in the underlying bufio.Writer and surface at the final
// Flush.
type lineWriter struct {
	w     *bufio.Writer
	width int // <=0 disables wrapping
	col   int
}

func (lw *lineWriter) header(name string) {
	lw.w.WriteByte('>')
	lw.w.WriteString(name)
	lw.w.WriteByte('\n')
	lw.col = 0
}

func (lw *lineWriter) write(chars []byte) {
	if lw.width <= 0 {
		lw.w.Write(chars)
		return
	}
	for len(chars) > 0 {
		if lw.col == lw.width {
			lw.w.WriteByte('\n')
			lw.col = 0
		}
		n := lw.width - lw.col
		if n > len(chars) {
			n = len(chars)
		}
		lw.w.Write(chars[:n])
		lw.col += n
		chars = chars[n:]
	}
}

// endRecord terminates the current sequence line; it does not flush.
func (lw *lineWriter) endRecord() {
	lw.w.WriteByte('\n')
	lw.col = 0
}
