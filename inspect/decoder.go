package inspect

import (
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/ebwt/index"
)

// decodeWindowScale sets the packed-path window to wrapWidth*decodeWindowScale
// bases, so every full window ends exactly on a line boundary and total
// memory stays bounded regardless of reference length.
const decodeWindowScale = 1000

// writeRefFromPacked decodes one reference from the two-bit packed store in
// fixed windows and streams it through lw.  length is the effective length,
// colorspace adjustment included.
func writeRefFromPacked(idx index.Index, ref int, name string, length int, lw *lineWriter, opts Opts) error {
	wrap := opts.Across
	if wrap <= 0 {
		wrap = DefaultOpts.Across
	}
	window := wrap * decodeWindowScale
	buf := make([]byte, window+index.DecodeMargin)
	if opts.Verbose {
		log.Printf("decoding reference %d (%s): %d bases in windows of %d", ref, name, length, window)
	}
	lw.header(name)
	for i := 0; i < length; i += window {
		amt := window
		if amt > length-i {
			amt = length - i
		}
		off, err := idx.GetStretch(buf, ref, i, amt)
		if err != nil {
			return err
		}
		if off < 0 || off+amt > len(buf) {
			return errors.E("corrupt index: decoded stretch at offset", strconv.Itoa(off), "exceeds the requested window")
		}
		chunk := buf[off : off+amt]
		for j, c := range chunk {
			if c > index.BaseN {
				return errors.E("corrupt index: base code", strconv.Itoa(int(c)), "at", name, "offset", strconv.Itoa(i+j))
			}
			chunk[j] = index.BaseChars[c]
		}
		lw.write(chunk)
	}
	if length > 0 {
		lw.endRecord()
	}
	return nil
}
