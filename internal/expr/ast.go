package expr

import (
	"fmt"
	"strconv"
)

// Kind tags the variant of an expression node.
type Kind int

const (
	// KindConst is a floating point literal
	KindConst Kind = iota
	// KindSource is the raw input value being converted ("@")
	KindSource
	// KindVar is a reference to another feature of the same chip, by name
	KindVar
	// KindUnary applies a unary operator to one operand
	KindUnary
	// KindBinary applies a binary operator to two operands
	KindBinary
)

// UnaryOp enumerates the unary operators.
type UnaryOp int

const (
	OpNegate UnaryOp = iota
	OpExp
	OpLog
)

// BinaryOp enumerates the binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
)

// Node is one node of an expression tree. Trees are immutable after
// construction and owned by the config entry that declared them; there
// is no sharing between entries and no cycles.
type Node struct {
	Kind  Kind
	Value float64  // KindConst
	Var   string   // KindVar: feature name
	UOp   UnaryOp  // KindUnary
	BOp   BinaryOp // KindBinary
	Left  *Node    // KindUnary operand, KindBinary left operand
	Right *Node    // KindBinary right operand
}

// Const builds a literal node.
func Const(v float64) *Node { return &Node{Kind: KindConst, Value: v} }

// Source builds the raw-input reference node.
func Source() *Node { return &Node{Kind: KindSource} }

// Var builds a feature reference node.
func Var(name string) *Node { return &Node{Kind: KindVar, Var: name} }

// Unary builds a unary operator node.
func Unary(op UnaryOp, operand *Node) *Node {
	return &Node{Kind: KindUnary, UOp: op, Left: operand}
}

// Binary builds a binary operator node.
func Binary(op BinaryOp, left, right *Node) *Node {
	return &Node{Kind: KindBinary, BOp: op, Left: left, Right: right}
}

// String renders the tree back into the directive expression syntax.
func (n *Node) String() string {
	if n == nil {
		return ""
	}
	switch n.Kind {
	case KindConst:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case KindSource:
		return "@"
	case KindVar:
		return n.Var
	case KindUnary:
		switch n.UOp {
		case OpNegate:
			return "-" + n.Left.String()
		case OpExp:
			return "exp(" + n.Left.String() + ")"
		case OpLog:
			return "ln(" + n.Left.String() + ")"
		}
	case KindBinary:
		op := "?"
		switch n.BOp {
		case OpAdd:
			op = "+"
		case OpSub:
			op = "-"
		case OpMul:
			op = "*"
		case OpDiv:
			op = "/"
		}
		return fmt.Sprintf("(%s %s %s)", n.Left, op, n.Right)
	}
	return "?"
}
