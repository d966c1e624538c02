// Package index defines the query surface of a serialized genome index that
// the reconstruction code consumes.  An index is built over the concatenation
// of all reference sequences (the "joined text"); implementations answer
// random-access decodes of the packed reference store, reverse position
// mapping from joined-text coordinates, and read-only metadata lookups.
// Nothing in this package builds or mutates an index.
package index

// Base codes produced by a packed decode.  BaseN marks a position whose
// original identity is not represented in the packed store.
const (
	BaseA = iota
	BaseC
	BaseG
	BaseT
	BaseN
)

// BaseChars maps a base code to its nucleotide character.
const BaseChars = "ACGTN"

// DecodeMargin is the packing-alignment slack GetStretch may consume at the
// front of the caller's buffer.  The buffer passed to GetStretch must hold
// the requested base count plus DecodeMargin bytes.
const DecodeMargin = 16

// Metadata holds the index construction parameters exposed to callers.  All
// fields are fixed when the index is built.
type Metadata struct {
	Flags         int32 // forward index flag word
	ReverseFlags  int32 // reverse index flag word
	Color         bool  // colorspace index; adds one leading base per reference
	EntireReverse bool  // reverse index covers the entire text (2.0-compatible)
	OffRate       int   // SA sample rate: one row in 2^OffRate is sampled
	FtabChars     int   // number of characters consumed by an ftab lookup
}

// JoinedPosition locates one joined-text position within a reference.
type JoinedPosition struct {
	Ref    int // reference ordinal
	Offset int // 0-based offset within the reference
	RefLen int // declared length of the reference, color adjustment included
}

// Index is the narrow capability interface served by an index engine.  All
// methods are pure reads; implementations need not be thread-safe.
type Index interface {
	// NumRefs returns the number of references the index was built over.
	NumRefs() int

	// RefNames returns the reference names in ordinal order.
	RefNames() []string

	// RefLengths returns the stored reference lengths in ordinal order.  For
	// a colorspace index the synthetic leading base is not included; callers
	// add one for the effective length.
	RefLengths() []int

	// Metadata returns the index construction parameters.
	Metadata() Metadata

	// JoinedLen returns the length of the joined text.
	JoinedLen() int

	// GetStretch decodes count bases of reference ref starting at in-reference
	// offset refOff, writing one base code per byte into dst.  Valid data
	// begins at the returned offset; bytes before it are alignment padding
	// and must be ignored.  dst must have room for the returned offset plus
	// count bytes, which len(dst) >= count+DecodeMargin guarantees.
	GetStretch(dst []byte, ref, refOff, count int) (int, error)

	// MapPosition maps a joined-text position back to a reference.  ok is
	// false for padding positions that belong to no reference.
	MapPosition(pos int) (jp JoinedPosition, ok bool)

	// RestoreJoined returns the joined text as one nucleotide character per
	// position.  Positions that map to no reference read as 'N'.
	RestoreJoined() ([]byte, error)
}
