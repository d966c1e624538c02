package inspect

import (
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/ebwt/index"
)

// refState accumulates the reference currently being reconstructed by the
// traversal path.  It exists only between the first observed base of a
// reference and its flush.
type refState struct {
	ref     int
	declLen int
	seq     []byte
	lastOff int
	first   bool // no base has been appended for this reference yet
}

// reconstructFromIndex walks every joined-text position, maps it back to a
// reference, and emits one completed (name, sequence) pair per reference in
// ordinal order.  Positions with no mapping are gap positions: the missing
// span is filled with N so every emitted sequence is exactly its declared
// length.  References the mapping never visits are emitted as all N.
func reconstructFromIndex(idx index.Index, emit func(name, seq string) error) error {
	names := idx.RefNames()
	joined, err := idx.RestoreJoined()
	if err != nil {
		return err
	}

	var cur *refState
	next := 0 // next ordinal owed to emit

	declaredLen := func(ref int) int {
		n := idx.RefLengths()[ref]
		if idx.Metadata().Color {
			n++
		}
		return n
	}
	flush := func() error {
		if pad := cur.declLen - len(cur.seq); pad > 0 {
			cur.seq = append(cur.seq, strings.Repeat("N", pad)...)
		}
		return emit(names[cur.ref], string(cur.seq))
	}
	// Emit all-N sequences for ordinals in [next, stop).
	fill := func(stop int) error {
		for ; next < stop; next++ {
			if err := emit(names[next], strings.Repeat("N", declaredLen(next))); err != nil {
				return err
			}
		}
		return nil
	}

	for i := range joined {
		jp, ok := idx.MapPosition(i)
		if !ok || jp.Offset >= jp.RefLen {
			continue
		}
		if cur == nil || jp.Ref != cur.ref {
			if cur != nil {
				if jp.Ref < cur.ref {
					return errors.E("corrupt index: reference ordinal regressed from", strconv.Itoa(cur.ref), "to", strconv.Itoa(jp.Ref))
				}
				if err := flush(); err != nil {
					return err
				}
			}
			if jp.Ref >= len(names) {
				return errors.E("corrupt index: position maps to reference", strconv.Itoa(jp.Ref), "of", strconv.Itoa(len(names)))
			}
			if err := fill(jp.Ref); err != nil {
				return err
			}
			next = jp.Ref + 1
			cur = &refState{ref: jp.Ref, declLen: jp.RefLen, first: true}
		}
		// The mapping reports the first base of a reference one short when it
		// is not at offset zero; skip one extra leading position to match.
		adj := jp.Offset
		if cur.first && jp.Offset > 0 {
			adj++
		}
		if gap := adj - cur.lastOff - 1; gap > 0 {
			cur.seq = append(cur.seq, strings.Repeat("N", gap)...)
		}
		cur.seq = append(cur.seq, joined[i])
		cur.lastOff = jp.Offset
		cur.first = false
	}
	if cur != nil {
		if err := flush(); err != nil {
			return err
		}
	}
	return fill(len(names))
}
