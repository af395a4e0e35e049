// Package connection implements the per-leaf ordered connection AST (spec
// section 3) and its lowering to a binary mux tree (spec section 4.7).
package connection

import (
	"github.com/atlas-hdl/atlas/pkg/atlaserr"
	"github.com/atlas-hdl/atlas/pkg/signal"
)

// Literal is a raw integer or boolean connection right-hand side. Integer
// literals adopt the other operand's width wherever they are used
// arithmetically; as a connection RHS they are simply emitted as-is.
type Literal struct {
	Value int64
	IsBit bool // true if this literal originated as a bool
}

// Entry is one element of a leaf's connection list: either a raw
// right-hand side (another Bits leaf, or a Literal) or a predicated Block.
// It is a plain alias for `any` (rather than a distinct named type) so
// that it is interchangeable with signal.Bits.Connections, which is typed
// as []any to avoid an import cycle.
type Entry = any

// Block predicates a nested span of connections on a width-1 signal. Order
// within True/False matters: later connections take precedence over
// earlier ones, exactly as in the unguarded list.
type Block struct {
	Predicate  *signal.Bits
	True       List
	False      List
}

// List is the ordered connection AST for a single Bits leaf.
type List = []Entry

// PredicateFrame is one entry of the active predicate path: a signal and
// which branch (true/false) is currently active.
type PredicateFrame struct {
	Predicate *signal.Bits
	Branch    bool
}

// Insert appends rhs to lhs's connection list under the given predicate
// path, implementing the walk in spec section 4.6: the cursor descends
// through existing Blocks that match the path's predicates (reusing a
// trailing Block with the same predicate rather than creating a sibling),
// and only creates a new Block when the path diverges from what is already
// there.
func Insert(lhs *signal.Bits, path []PredicateFrame, rhs Entry) {
	cursor := &lhs.Connections

	for _, frame := range path {
		if n := len(*cursor); n > 0 {
			if blk, ok := (*cursor)[n-1].(*Block); ok && blk.Predicate == frame.Predicate {
				if frame.Branch {
					cursor = &blk.True
				} else {
					cursor = &blk.False
				}

				continue
			}
		}

		blk := &Block{Predicate: frame.Predicate}
		*cursor = append(*cursor, blk)

		if frame.Branch {
			cursor = &blk.True
		} else {
			cursor = &blk.False
		}
	}

	*cursor = append(*cursor, rhs)
}

// Tree is the lowered, binary mux form of a connection list.
type Tree interface{ isTree() }

// Leaf is a tree node wrapping a raw right-hand side (no further
// predication).
type Leaf struct{ RHS Entry }

// Node predicates a choice between two sub-trees.
type Node struct {
	Predicate   *signal.Bits
	True, False Tree
}

func (Leaf) isTree() {}
func (*Node) isTree() {}

// Build lowers an ordered connection list to a ConnectionTree, applying the
// five rules of spec section 4.7 in order. It returns (nil, nil) for an
// empty list (the signal remains undriven — callers are responsible for
// treating that as an error for non-register, non-input leaves, since an
// empty list is legitimate for inputs and for registers relying on
// self-assignment via Reg's default-hold wiring).
func Build(entries List) (Tree, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	last := entries[len(entries)-1]

	blk, isBlock := last.(*Block)
	if !isBlock {
		// Rule 2: an unguarded trailing entry shadows everything
		// earlier.
		return Leaf{RHS: last}, nil
	}

	trueNonEmpty := len(blk.True) > 0
	falseNonEmpty := len(blk.False) > 0

	if len(entries) == 1 {
		// Rule 3: a lone predicated entry must cover both branches.
		if !trueNonEmpty || !falseNonEmpty {
			return nil, atlaserr.Lowering("incomplete decision: predicated assignment has no fallback")
		}
	}

	prefix := entries[:len(entries)-1]

	switch {
	case trueNonEmpty && falseNonEmpty:
		// Rule 4: both branches recursively absorb the prefix as
		// their default.
		trueTree, err := Build(append(append(List{}, prefix...), blk.True...))
		if err != nil {
			return nil, err
		}

		falseTree, err := Build(append(append(List{}, prefix...), blk.False...))
		if err != nil {
			return nil, err
		}

		return &Node{Predicate: blk.Predicate, True: trueTree, False: falseTree}, nil
	case trueNonEmpty:
		// Rule 5: empty false branch falls through to the prefix
		// alone.
		trueTree, err := Build(append(append(List{}, prefix...), blk.True...))
		if err != nil {
			return nil, err
		}

		falseTree, err := Build(prefix)
		if err != nil {
			return nil, err
		}

		return &Node{Predicate: blk.Predicate, True: trueTree, False: falseTree}, nil
	case falseNonEmpty:
		trueTree, err := Build(prefix)
		if err != nil {
			return nil, err
		}

		falseTree, err := Build(append(append(List{}, prefix...), blk.False...))
		if err != nil {
			return nil, err
		}

		return &Node{Predicate: blk.Predicate, True: trueTree, False: falseTree}, nil
	default:
		// Both branches empty: only reachable when len(entries) > 1,
		// since the len==1 case already errored above. A block with
		// no assignments in either branch contributes nothing; fall
		// through to the prefix.
		return Build(prefix)
	}
}
