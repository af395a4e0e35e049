package connection

import (
	"testing"

	"github.com/atlas-hdl/atlas/pkg/signal"
	"github.com/atlas-hdl/atlas/pkg/typespec"
)

func pred(name string) *signal.Bits {
	return signal.Create(typespec.Bits(1, false), name, "module").(*signal.Bits)
}

func TestInsertFlatAppend(t *testing.T) {
	lhs := pred("lhs")

	Insert(lhs, nil, Literal{Value: 1})
	Insert(lhs, nil, Literal{Value: 2})

	if len(lhs.Connections) != 2 {
		t.Fatalf("expected two flat entries, got %d", len(lhs.Connections))
	}
}

func TestInsertReusesTrailingBlock(t *testing.T) {
	lhs := pred("lhs")
	p := pred("p")

	Insert(lhs, []PredicateFrame{{Predicate: p, Branch: true}}, Literal{Value: 1})
	Insert(lhs, []PredicateFrame{{Predicate: p, Branch: true}}, Literal{Value: 2})

	if len(lhs.Connections) != 1 {
		t.Fatalf("expected a single reused block, got %d top-level entries", len(lhs.Connections))
	}

	blk, ok := lhs.Connections[0].(*Block)
	if !ok {
		t.Fatalf("expected a *Block, got %T", lhs.Connections[0])
	}

	if len(blk.True) != 2 {
		t.Fatalf("expected both connections to land in the true branch, got %d", len(blk.True))
	}
}

func TestInsertDivergingPredicateCreatesSiblingBlock(t *testing.T) {
	lhs := pred("lhs")
	p := pred("p")
	q := pred("q")

	Insert(lhs, []PredicateFrame{{Predicate: p, Branch: true}}, Literal{Value: 1})
	Insert(lhs, []PredicateFrame{{Predicate: q, Branch: true}}, Literal{Value: 2})

	if len(lhs.Connections) != 2 {
		t.Fatalf("expected two sibling blocks, got %d", len(lhs.Connections))
	}
}

func TestInsertNestedPath(t *testing.T) {
	lhs := pred("lhs")
	p := pred("p")
	q := pred("q")

	Insert(lhs, []PredicateFrame{{Predicate: p, Branch: true}, {Predicate: q, Branch: false}}, Literal{Value: 7})

	outer, ok := lhs.Connections[0].(*Block)
	if !ok {
		t.Fatalf("expected outer *Block, got %T", lhs.Connections[0])
	}

	if outer.Predicate != p {
		t.Fatalf("expected outer predicate to be p")
	}

	inner, ok := outer.True[0].(*Block)
	if !ok {
		t.Fatalf("expected inner *Block, got %T", outer.True[0])
	}

	if inner.Predicate != q {
		t.Fatalf("expected inner predicate to be q")
	}

	if len(inner.False) != 1 {
		t.Fatalf("expected the literal to land in the inner false branch")
	}
}

func TestBuildEmptyList(t *testing.T) {
	tree, err := Build(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree != nil {
		t.Fatalf("expected nil tree for an empty connection list")
	}
}

func TestBuildUnguardedTrailingShadowsEarlier(t *testing.T) {
	tree, err := Build(List{Literal{Value: 1}, Literal{Value: 2}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	leaf, ok := tree.(Leaf)
	if !ok {
		t.Fatalf("expected a Leaf, got %T", tree)
	}

	lit, ok := leaf.RHS.(Literal)
	if !ok || lit.Value != 2 {
		t.Fatalf("expected the trailing literal 2 to shadow the earlier one, got %v", leaf.RHS)
	}
}

func TestBuildLonePredicateWithoutBothBranchesErrors(t *testing.T) {
	p := pred("p")

	_, err := Build(List{&Block{Predicate: p, True: List{Literal{Value: 1}}}})
	if err == nil {
		t.Fatalf("expected an error for an incomplete lone decision")
	}
}

func TestBuildBothBranchesNonEmpty(t *testing.T) {
	p := pred("p")

	tree, err := Build(List{&Block{
		Predicate: p,
		True:      List{Literal{Value: 1}},
		False:     List{Literal{Value: 0}},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node, ok := tree.(*Node)
	if !ok {
		t.Fatalf("expected a *Node, got %T", tree)
	}

	if node.Predicate != p {
		t.Fatalf("expected node predicate to be p")
	}

	trueLeaf, ok := node.True.(Leaf)
	if !ok || trueLeaf.RHS.(Literal).Value != 1 {
		t.Fatalf("unexpected true branch: %#v", node.True)
	}

	falseLeaf, ok := node.False.(Leaf)
	if !ok || falseLeaf.RHS.(Literal).Value != 0 {
		t.Fatalf("unexpected false branch: %#v", node.False)
	}
}

func TestBuildTrueOnlyFallsThroughPrefixOnFalse(t *testing.T) {
	p := pred("p")

	tree, err := Build(List{
		Literal{Value: 9},
		&Block{Predicate: p, True: List{Literal{Value: 1}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node := tree.(*Node)

	trueLeaf := node.True.(Leaf)
	if trueLeaf.RHS.(Literal).Value != 1 {
		t.Fatalf("expected true branch to carry the predicated value")
	}

	falseLeaf := node.False.(Leaf)
	if falseLeaf.RHS.(Literal).Value != 9 {
		t.Fatalf("expected false branch to fall through to the prefix default, got %#v", node.False)
	}
}

func TestBuildFalseOnlyFallsThroughPrefixOnTrue(t *testing.T) {
	p := pred("p")

	tree, err := Build(List{
		Literal{Value: 9},
		&Block{Predicate: p, False: List{Literal{Value: 1}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	node := tree.(*Node)

	trueLeaf := node.True.(Leaf)
	if trueLeaf.RHS.(Literal).Value != 9 {
		t.Fatalf("expected true branch to fall through to the prefix default, got %#v", node.True)
	}

	falseLeaf := node.False.(Leaf)
	if falseLeaf.RHS.(Literal).Value != 1 {
		t.Fatalf("expected false branch to carry the predicated value")
	}
}

func TestBuildBothBranchesEmptyFallsThroughToPrefix(t *testing.T) {
	p := pred("p")

	tree, err := Build(List{
		Literal{Value: 5},
		&Block{Predicate: p},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	leaf, ok := tree.(Leaf)
	if !ok {
		t.Fatalf("expected a bare Leaf falling through to the prefix, got %T", tree)
	}

	if leaf.RHS.(Literal).Value != 5 {
		t.Fatalf("expected the prefix's value, got %#v", leaf.RHS)
	}
}

func TestBuildNestedPredicatesPropagatePrefix(t *testing.T) {
	p := pred("p")
	q := pred("q")

	// Nested block: p ? (q ? 1 : 2) : 0, preceded by a default of 9.
	inner := &Block{Predicate: q, True: List{Literal{Value: 1}}, False: List{Literal{Value: 2}}}
	outer := &Block{Predicate: p, True: List{inner}, False: List{Literal{Value: 0}}}

	tree, err := Build(List{Literal{Value: 9}, outer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	top := tree.(*Node)
	if top.Predicate != p {
		t.Fatalf("expected outer predicate p at the top")
	}

	trueNode := top.True.(*Node)
	if trueNode.Predicate != q {
		t.Fatalf("expected inner predicate q nested under p's true branch")
	}

	if trueNode.True.(Leaf).RHS.(Literal).Value != 1 {
		t.Fatalf("expected q's true branch to be 1")
	}

	if trueNode.False.(Leaf).RHS.(Literal).Value != 2 {
		t.Fatalf("expected q's false branch to be 2")
	}

	if top.False.(Leaf).RHS.(Literal).Value != 0 {
		t.Fatalf("expected p's false branch to be 0")
	}
}
