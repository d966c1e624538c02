// Package inspect reconstructs the original nucleotide reference sequences
// held in a genome index and emits them, or metadata about them, as text.
//
// Two independent decode paths exist.  The default path decodes the two-bit
// packed reference store directly, streaming each reference through
// fixed-size windows so memory stays bounded for genome-scale references.
// The traversal path instead walks the index's joined text position by
// position and inverts the reverse position mapping; it is slower, but it
// recovers whatever symbols the index text carries and fills positions the
// mapping suppresses with N.  Both paths emit references in ordinal order,
// and every emitted sequence is exactly its declared length.
package inspect
