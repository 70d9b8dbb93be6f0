package expr

import (
	"math"

	"github.com/hwsense/hwsense/internal/sensor"
)

// Env resolves feature references during evaluation. The accessor
// implements it so a variable reference re-enters the full get-value
// pipeline (config lookup, compute mapping, conversion) rather than a
// plain raw read.
type Env interface {
	// FeatureValue resolves the named feature of the chip the
	// expression is being evaluated against and returns its value.
	FeatureValue(name string) (float64, error)
}

// Eval evaluates an expression tree. source is the raw input value the
// KindSource node yields. Operands evaluate left to right; the first
// error short-circuits the remaining operands and propagates.
//
// Division by exact zero fails with the div-zero kind. The logarithm
// of a negative operand reports the same kind.
func Eval(env Env, n *Node, source float64) (float64, error) {
	switch n.Kind {
	case KindConst:
		return n.Value, nil
	case KindSource:
		return source, nil
	case KindVar:
		return env.FeatureValue(n.Var)
	case KindUnary:
		v, err := Eval(env, n.Left, source)
		if err != nil {
			return 0, err
		}
		switch n.UOp {
		case OpNegate:
			return -v, nil
		case OpExp:
			return math.Exp(v), nil
		case OpLog:
			if v < 0 {
				return 0, sensor.NewDivZeroError("eval")
			}
			return math.Log(v), nil
		}
	case KindBinary:
		left, err := Eval(env, n.Left, source)
		if err != nil {
			return 0, err
		}
		right, err := Eval(env, n.Right, source)
		if err != nil {
			return 0, err
		}
		switch n.BOp {
		case OpAdd:
			return left + right, nil
		case OpSub:
			return left - right, nil
		case OpMul:
			return left * right, nil
		case OpDiv:
			if right == 0.0 {
				return 0, sensor.NewDivZeroError("eval")
			}
			return left / right, nil
		}
	}
	return 0, nil
}
