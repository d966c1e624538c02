// Package indexfile reads and writes the serialized index container and
// serves the index.Index query interface over its contents.
//
// The container is a single little-endian binary file: a fixed header
// (magic "EBW1", version, flag words, colorspace and reverse-compatibility
// bits, SA sample rate, ftab width, joined-text length), the reference name
// and length tables, then two snappy-compressed sections holding the fragment
// table and the two-bit packed base store.  A fragment is one run of
// unambiguous bases; joined-text positions outside every fragment belong to
// no reference.
package indexfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"io/ioutil"
	"sort"

	"github.com/golang/snappy"
	"github.com/grailbio/base/file"
	"github.com/grailbio/ebwt/index"
	"github.com/pkg/errors"
)

const (
	magic         = "EBW1"
	formatVersion = 1
)

// Fragment is one run of unambiguous bases.  Field order is the wire order.
type Fragment struct {
	JoinedOff int64 // start position in joined-text coordinates
	Len       int64 // number of bases in the run
	Ref       int32 // reference ordinal
	RefOff    int64 // start offset within the reference
	PackedOff int64 // start base within the packed store
}

// Index is a fully loaded container.  It implements index.Index.
type Index struct {
	meta      index.Metadata
	names     []string
	lens      []int
	joinedLen int
	frags     []Fragment // sorted by JoinedOff, grouped by ascending Ref
	refFrag   []int      // frags[refFrag[r]:refFrag[r+1]] belong to reference r
	packed    []byte     // four bases per byte, low bits first
}

// New assembles an in-memory index from already-built parts and validates
// their internal consistency.  lens excludes the colorspace leading base.
func New(meta index.Metadata, names []string, lens []int, joinedLen int, frags []Fragment, packed []byte) (*Index, error) {
	if len(names) != len(lens) {
		return nil, errors.Errorf("index has %d names but %d lengths", len(names), len(lens))
	}
	x := &Index{
		meta:      meta,
		names:     names,
		lens:      lens,
		joinedLen: joinedLen,
		frags:     frags,
		packed:    packed,
	}
	prevEnd := int64(0)
	prevRef := int32(0)
	for i, f := range frags {
		if f.Ref < 0 || int(f.Ref) >= len(names) {
			return nil, errors.Errorf("fragment %d: reference %d out of range", i, f.Ref)
		}
		if f.Ref < prevRef {
			return nil, errors.Errorf("fragment %d: reference ordinal regressed from %d to %d", i, prevRef, f.Ref)
		}
		if f.Len <= 0 || f.JoinedOff < prevEnd || f.JoinedOff+f.Len > int64(joinedLen) {
			return nil, errors.Errorf("fragment %d: bad joined range [%d,%d)", i, f.JoinedOff, f.JoinedOff+f.Len)
		}
		if f.RefOff < 0 || f.RefOff+f.Len > int64(x.effLen(int(f.Ref))) {
			return nil, errors.Errorf("fragment %d: bad reference range [%d,%d)", i, f.RefOff, f.RefOff+f.Len)
		}
		if f.PackedOff < 0 || f.PackedOff+f.Len > int64(4*len(packed)) {
			return nil, errors.Errorf("fragment %d: packed range [%d,%d) outside store", i, f.PackedOff, f.PackedOff+f.Len)
		}
		prevEnd = f.JoinedOff + f.Len
		prevRef = f.Ref
	}
	x.refFrag = make([]int, len(names)+1)
	fi := 0
	for r := 0; r < len(names); r++ {
		x.refFrag[r] = fi
		for fi < len(frags) && int(frags[fi].Ref) == r {
			fi++
		}
	}
	x.refFrag[len(names)] = fi
	return x, nil
}

// Load reads and parses a container from path.
func Load(ctx context.Context, path string) (*Index, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer in.Close(ctx) // nolint: errcheck
	data, err := ioutil.ReadAll(in.Reader(ctx))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	x, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return x, nil
}

type header struct {
	Magic     [4]byte
	Version   uint32
	Flags     int32
	RevFlags  int32
	Color     uint8
	EntireRev uint8
	OffRate   int32
	FtabChars int32
	JoinedLen int64
	NumRefs   int32
	NumFrags  int32
}

// Parse parses a serialized container.
func Parse(data []byte) (*Index, error) {
	r := bytes.NewReader(data)
	var hdr header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, errors.Wrap(err, "reading index header")
	}
	if string(hdr.Magic[:]) != magic {
		return nil, errors.Errorf("bad index magic %q", hdr.Magic[:])
	}
	if hdr.Version != formatVersion {
		return nil, errors.Errorf("unsupported index version %d", hdr.Version)
	}
	if hdr.NumRefs < 0 || hdr.NumFrags < 0 || hdr.JoinedLen < 0 {
		return nil, errors.New("negative count in index header")
	}
	names := make([]string, hdr.NumRefs)
	for i := range names {
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, errors.Wrapf(err, "reading name %d", i)
		}
		b := make([]byte, n)
		if _, err := io.ReadFull(r, b); err != nil {
			return nil, errors.Wrapf(err, "reading name %d", i)
		}
		names[i] = string(b)
	}
	lens64 := make([]int64, hdr.NumRefs)
	if err := binary.Read(r, binary.LittleEndian, lens64); err != nil {
		return nil, errors.Wrap(err, "reading length table")
	}
	lens := make([]int, hdr.NumRefs)
	for i, n := range lens64 {
		if n < 0 {
			return nil, errors.Errorf("negative length for reference %d", i)
		}
		lens[i] = int(n)
	}
	fragRaw, err := readSection(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading fragment table")
	}
	frags := make([]Fragment, hdr.NumFrags)
	if len(frags) > 0 {
		if want := binary.Size(frags); want != len(fragRaw) {
			return nil, errors.Errorf("fragment table is %d bytes, want %d", len(fragRaw), want)
		}
		if err := binary.Read(bytes.NewReader(fragRaw), binary.LittleEndian, frags); err != nil {
			return nil, errors.Wrap(err, "decoding fragment table")
		}
	}
	packed, err := readSection(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading packed store")
	}
	meta := index.Metadata{
		Flags:         hdr.Flags,
		ReverseFlags:  hdr.RevFlags,
		Color:         hdr.Color != 0,
		EntireReverse: hdr.EntireRev != 0,
		OffRate:       int(hdr.OffRate),
		FtabChars:     int(hdr.FtabChars),
	}
	return New(meta, names, lens, int(hdr.JoinedLen), frags, packed)
}

// Marshal serializes the container.
func (x *Index) Marshal() ([]byte, error) {
	buf := &bytes.Buffer{}
	hdr := header{
		Version:   formatVersion,
		Flags:     x.meta.Flags,
		RevFlags:  x.meta.ReverseFlags,
		OffRate:   int32(x.meta.OffRate),
		FtabChars: int32(x.meta.FtabChars),
		JoinedLen: int64(x.joinedLen),
		NumRefs:   int32(len(x.names)),
		NumFrags:  int32(len(x.frags)),
	}
	copy(hdr.Magic[:], magic)
	if x.meta.Color {
		hdr.Color = 1
	}
	if x.meta.EntireReverse {
		hdr.EntireRev = 1
	}
	if err := binary.Write(buf, binary.LittleEndian, hdr); err != nil {
		return nil, err
	}
	for _, name := range x.names {
		if len(name) > 1<<16-1 {
			return nil, errors.Errorf("reference name too long: %d bytes", len(name))
		}
		if err := binary.Write(buf, binary.LittleEndian, uint16(len(name))); err != nil {
			return nil, err
		}
		buf.WriteString(name)
	}
	lens64 := make([]int64, len(x.lens))
	for i, n := range x.lens {
		lens64[i] = int64(n)
	}
	if err := binary.Write(buf, binary.LittleEndian, lens64); err != nil {
		return nil, err
	}
	fragBuf := &bytes.Buffer{}
	if err := binary.Write(fragBuf, binary.LittleEndian, x.frags); err != nil {
		return nil, err
	}
	writeSection(buf, fragBuf.Bytes())
	writeSection(buf, x.packed)
	return buf.Bytes(), nil
}

// Write serializes the container to path.
func Write(ctx context.Context, path string, x *Index) error {
	data, err := x.Marshal()
	if err != nil {
		return err
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out.Writer(ctx))
	if _, err := w.Write(data); err != nil {
		out.Close(ctx) // nolint: errcheck
		return errors.Wrap(err, path)
	}
	if err := w.Flush(); err != nil {
		out.Close(ctx) // nolint: errcheck
		return errors.Wrap(err, path)
	}
	return out.Close(ctx)
}

func readSection(r *bytes.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	comp := make([]byte, n)
	if _, err := io.ReadFull(r, comp); err != nil {
		return nil, err
	}
	return snappy.Decode(nil, comp)
}

func writeSection(buf *bytes.Buffer, raw []byte) {
	comp := snappy.Encode(nil, raw)
	binary.Write(buf, binary.LittleEndian, uint32(len(comp))) // writes to a Buffer cannot fail
	buf.Write(comp)
}

func (x *Index) effLen(ref int) int {
	if x.meta.Color {
		return x.lens[ref] + 1
	}
	return x.lens[ref]
}

// NumRefs implements index.Index.
func (x *Index) NumRefs() int { return len(x.names) }

// RefNames implements index.Index.
func (x *Index) RefNames() []string { return x.names }

// RefLengths implements index.Index.
func (x *Index) RefLengths() []int { return x.lens }

// Metadata implements index.Index.
func (x *Index) Metadata() index.Metadata { return x.meta }

// JoinedLen implements index.Index.
func (x *Index) JoinedLen() int { return x.joinedLen }

func (x *Index) base(packedOff int64) byte {
	return x.packed[packedOff>>2] >> (uint(packedOff&3) * 2) & 3
}

// GetStretch implements index.Index.GetStretch.  Positions outside every
// fragment decode to BaseN.
func (x *Index) GetStretch(dst []byte, ref, refOff, count int) (int, error) {
	if ref < 0 || ref >= len(x.names) {
		return 0, errors.Errorf("reference %d out of range [0,%d)", ref, len(x.names))
	}
	if refOff < 0 || count < 0 || refOff+count > x.effLen(ref) {
		return 0, errors.Errorf("stretch [%d,%d) outside reference %d of length %d",
			refOff, refOff+count, ref, x.effLen(ref))
	}
	frags := x.frags[x.refFrag[ref]:x.refFrag[ref+1]]
	off := 0
	for _, f := range frags {
		if int64(refOff) < f.RefOff+f.Len && int64(refOff+count) > f.RefOff {
			d := int64(refOff) - f.RefOff
			if d < 0 {
				d = 0
			}
			off = int((f.PackedOff + d) & 3)
			break
		}
	}
	if off+count > len(dst) {
		return 0, errors.Errorf("stretch of %d bases overflows %d-byte buffer", count, len(dst))
	}
	seg := dst[off : off+count]
	for i := range seg {
		seg[i] = index.BaseN
	}
	for _, f := range frags {
		lo, hi := f.RefOff, f.RefOff+f.Len
		if lo < int64(refOff) {
			lo = int64(refOff)
		}
		if hi > int64(refOff+count) {
			hi = int64(refOff + count)
		}
		for p := lo; p < hi; p++ {
			seg[p-int64(refOff)] = x.base(f.PackedOff + p - f.RefOff)
		}
	}
	return off, nil
}

// MapPosition implements index.Index.MapPosition.
func (x *Index) MapPosition(pos int) (index.JoinedPosition, bool) {
	i := sort.Search(len(x.frags), func(i int) bool {
		return x.frags[i].JoinedOff > int64(pos)
	}) - 1
	if i < 0 {
		return index.JoinedPosition{}, false
	}
	f := x.frags[i]
	if int64(pos) >= f.JoinedOff+f.Len {
		return index.JoinedPosition{}, false
	}
	return index.JoinedPosition{
		Ref:    int(f.Ref),
		Offset: int(f.RefOff + int64(pos) - f.JoinedOff),
		RefLen: x.effLen(int(f.Ref)),
	}, true
}

// RestoreJoined implements index.Index.RestoreJoined.
func (x *Index) RestoreJoined() ([]byte, error) {
	out := make([]byte, x.joinedLen)
	for i := range out {
		out[i] = 'N'
	}
	for _, f := range x.frags {
		for k := int64(0); k < f.Len; k++ {
			out[f.JoinedOff+k] = index.BaseChars[x.base(f.PackedOff+k)]
		}
	}
	return out, nil
}
