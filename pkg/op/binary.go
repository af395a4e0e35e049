package op

import (
	"fmt"

	"github.com/atlas-hdl/atlas/pkg/atlaserr"
	"github.com/atlas-hdl/atlas/pkg/connection"
	"github.com/atlas-hdl/atlas/pkg/signal"
)

// BinaryKind enumerates the primitive two-operand operators.
type BinaryKind string

// The supported binary opcodes (spec section 4.5).
const (
	Add BinaryKind = "add"
	Sub BinaryKind = "sub"
	Mul BinaryKind = "mul"
	Div BinaryKind = "div"
	Or  BinaryKind = "or"
	Xor BinaryKind = "xor"
	And BinaryKind = "and"
	Shl BinaryKind = "shl"
	Shr BinaryKind = "shr"
	Eq  BinaryKind = "eq"
	Ne  BinaryKind = "ne"
	Lt  BinaryKind = "lt"
	Le  BinaryKind = "le"
	Gt  BinaryKind = "gt"
	Ge  BinaryKind = "ge"
)

var verilogSymbol = map[BinaryKind]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/",
	Or: "|", Xor: "^", And: "&", Shl: "<<", Shr: ">>",
	Eq: "==", Ne: "!=", Lt: "<", Le: "<=", Gt: ">", Ge: ">=",
}

var comparisonKinds = map[BinaryKind]bool{
	Eq: true, Ne: true, Lt: true, Le: true, Gt: true, Ge: true,
}

// BinaryOp is a generic two-operand operator. Result width equals the
// operand width for arithmetic/bitwise operators and 1 for comparisons.
// Both operands must share a width when both are signals; an integer
// literal operand adopts the other operand's width.
type BinaryOp struct {
	name   string
	Kind   BinaryKind
	A      *signal.Bits
	B      any // *signal.Bits or connection.Literal
	Result *signal.Bits
}

// NewBinary constructs a binary operator, validating operand widths per
// spec section 4.5.
func NewBinary(namer *Namer, kind BinaryKind, a *signal.Bits, b any) (*BinaryOp, error) {
	if bSig, ok := b.(*signal.Bits); ok && bSig.Width != a.Width {
		return nil, atlaserr.TypeWidth("operand width mismatch on %s: %d vs %d", kind, a.Width, bSig.Width)
	}

	width := a.Width
	if comparisonKinds[kind] {
		width = 1
	}

	o := &BinaryOp{name: namer.Next(string(kind)), Kind: kind, A: a, B: b}
	o.Result = &signal.Bits{Width: width}
	*o.Result.Meta() = signal.Meta{Name: o.name + "_result"}

	return o, nil
}

// Name implements Operator.
func (o *BinaryOp) Name() string { return o.name }

// Results implements Operator.
func (o *BinaryOp) Results() []signal.Signal { return []signal.Signal{o.Result} }

// Declare implements Operator.
func (o *BinaryOp) Declare(s Sink) error {
	name, err := s.NameOf(o.Result)
	if err != nil {
		return err
	}

	s.DeclWire(name, o.Result.Width, o.Result.Signed)

	return nil
}

// Synthesize implements Operator.
func (o *BinaryOp) Synthesize(s Sink) error {
	lhs, err := s.NameOf(o.Result)
	if err != nil {
		return err
	}

	a, err := operandText(s, o.A, o.A.Signed)
	if err != nil {
		return err
	}

	b, err := operandText(s, o.B, o.A.Signed)
	if err != nil {
		return err
	}

	s.Raw(fmt.Sprintf("assign %s = %s %s %s;", lhs, a, verilogSymbol[o.Kind], b))

	return nil
}

// CacheKey implements Cacheable: binary ops are cacheable (two operators of
// the same kind with identical inputs dedup to one result, P6).
func (o *BinaryOp) CacheKey() Key {
	bid := identityOf(o.B)
	return Key{Opcode: "binary:" + string(o.Kind), Inputs: []uint64{Identity(o.A), bid}}
}

func identityOf(v any) uint64 {
	if sig, ok := v.(signal.Signal); ok {
		return Identity(sig)
	}

	if lit, ok := v.(connection.Literal); ok {
		return uint64(lit.Value) + 1
	}

	return 0
}

// operandText renders an operand (signal or literal) as Verilog text,
// wrapping it in $signed(...) when the containing operation is signed
// (spec section 9, Open Questions: "implementations should preserve the
// signed flag... and emit Verilog signed modifiers").
func operandText(s Sink, operand any, signed bool) (string, error) {
	name, err := s.NameOf(operand)
	if err != nil {
		return "", err
	}

	if signed {
		return fmt.Sprintf("$signed(%s)", name), nil
	}

	return name, nil
}
