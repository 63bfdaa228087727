package compiler

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/reoring/immuskema/model"
	"github.com/reoring/immuskema/schema"
)

// synthesizeDefault turns a "default" literal into an expression of type t.
// A missing or null literal and an empty array for a collection yield no
// default.
func synthesizeDefault(lit *schema.Node, t model.Type) (model.Expr, *Error) {
	if lit == nil || lit.IsNull() {
		return nil, nil
	}
	if p, ok := model.Unboxed(t).(model.Primitive); ok {
		switch p.Of {
		case model.Boolean:
			return model.Literal{Of: model.LitBool, Text: strconv.FormatBool(lit.Truthy())}, nil
		case model.Int:
			return integerLiteral(lit, 32)
		case model.Long:
			return integerLiteral(lit, 64)
		case model.Float:
			return floatLiteral(lit, 32)
		default:
			return floatLiteral(lit, 64)
		}
	}
	if lit.IsArray() || lit.IsObject() {
		if _, ok := t.(*model.Collection); ok && lit.IsArray() && lit.Len() == 0 {
			return nil, nil
		}
		return nil, newError(CodeDefaultValueRange, lit, nil, "structured %s default cannot initialize %s", lit.Kind(), t.QualifiedName())
	}
	if model.AcceptsString(t) {
		return model.Literal{Of: model.LitString, Text: lit.Text()}, nil
	}
	if lit.IsNumber() {
		kind := model.LitFloat
		if lit.IsIntegral() {
			kind = model.LitInt
		}
		return model.FactoryCall{Type: t, Factory: model.FromNumber, Arg: model.Literal{Of: kind, Text: lit.Text()}}, nil
	}
	if t.Kind() == model.KindEnum {
		return model.FactoryCall{Type: t, Factory: model.FromText, Arg: model.Literal{Of: model.LitString, Text: lit.Text()}}, nil
	}
	return model.FactoryCall{Type: t, Factory: model.FromString, Arg: model.Literal{Of: model.LitString, Text: lit.Text()}}, nil
}

func numericText(lit *schema.Node) (string, bool) {
	switch {
	case lit.IsNumber():
		return lit.Text(), true
	case lit.IsString():
		return strings.TrimSpace(lit.Text()), true
	}
	return "", false
}

// integerLiteral keeps the exact value of an integral default and rejects
// values that do not fit the target width.
func integerLiteral(lit *schema.Node, bits int) (model.Expr, *Error) {
	text, ok := numericText(lit)
	if !ok {
		return nil, newError(CodeDefaultValueRange, lit, nil, "%s default for a %d-bit integer", lit.Kind(), bits)
	}
	if i, err := strconv.ParseInt(text, 10, bits); err == nil {
		return model.Literal{Of: model.LitInt, Text: strconv.FormatInt(i, 10)}, nil
	}
	// 1e3 and 10.0 are integral too
	f, _, err := big.ParseFloat(text, 10, 256, big.ToNearestEven)
	if err != nil {
		return nil, newError(CodeDefaultValueRange, lit, err, "default %q is not a number", text)
	}
	if !f.IsInt() {
		return nil, newError(CodeDefaultValueRange, lit, nil, "default %s is not an integer", text)
	}
	i, _ := f.Int(nil)
	lo, hi := int64(math.MinInt32), int64(math.MaxInt32)
	if bits == 64 {
		lo, hi = math.MinInt64, math.MaxInt64
	}
	if !i.IsInt64() || i.Int64() < lo || i.Int64() > hi {
		return nil, newError(CodeDefaultValueRange, lit, nil, "default %s is out of range for a %d-bit integer", text, bits)
	}
	return model.Literal{Of: model.LitInt, Text: i.String()}, nil
}

// floatLiteral renders the shortest text that reads back as the same value.
func floatLiteral(lit *schema.Node, bits int) (model.Expr, *Error) {
	text, ok := numericText(lit)
	if !ok {
		return nil, newError(CodeDefaultValueRange, lit, nil, "%s default for a %d-bit float", lit.Kind(), bits)
	}
	f, err := strconv.ParseFloat(text, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return nil, newError(CodeDefaultValueRange, lit, nil, "default %s is out of range for a %d-bit float", text, bits)
		}
		return nil, newError(CodeDefaultValueRange, lit, err, "default %q is not a number", text)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, newError(CodeDefaultValueRange, lit, nil, "default %s is not finite", text)
	}
	if f == 0 {
		if exact, _, err := big.ParseFloat(text, 10, 256, big.ToNearestEven); err == nil && exact.Sign() != 0 {
			return nil, newError(CodeDefaultValueRange, lit, nil, "default %s underflows a %d-bit float", text, bits)
		}
	}
	out := strconv.FormatFloat(f, 'g', -1, bits)
	if !strings.ContainsAny(out, ".e") {
		out += ".0"
	}
	return model.Literal{Of: model.LitFloat, Text: out}, nil
}
