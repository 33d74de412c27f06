/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Tablegrid Authors
*/

package expr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/tablegrid/core/records"
)

// Env resolves top-level names (currentRow, currentIndex, ...) during
// evaluation. ok is false for unknown names.
type Env func(name string) (value records.Value, ok bool)

// MapEnv builds an Env over a fixed set of bindings
func MapEnv(bindings map[string]records.Value) Env {
	return func(name string) (records.Value, bool) {
		v, ok := bindings[name]
		return v, ok
	}
}

// Evaluator evaluates an expression AST
type Evaluator struct {
	ast Node
}

// NewEvaluator creates a new evaluator
func NewEvaluator(ast Node) *Evaluator {
	return &Evaluator{ast: ast}
}

// Eval evaluates the expression against env
func (e *Evaluator) Eval(env Env) (records.Value, error) {
	return e.eval(e.ast, env)
}

func (e *Evaluator) eval(node Node, env Env) (records.Value, error) {
	switch n := node.(type) {
	case *NumberLit:
		return records.Number(n.Value), nil

	case *StringLit:
		return records.String(n.Value), nil

	case *BoolLit:
		return records.Bool(n.Value), nil

	case *NullLit:
		return records.Null(), nil

	case *Ident:
		if env == nil {
			return records.Null(), fmt.Errorf("unknown name: %s", n.Name)
		}
		v, ok := env(n.Name)
		if !ok {
			return records.Null(), fmt.Errorf("unknown name: %s", n.Name)
		}
		return v, nil

	case *UnaryOp:
		val, err := e.eval(n.Expr, env)
		if err != nil {
			return records.Null(), err
		}
		switch n.Op {
		case TOKEN_MINUS:
			if val.Kind() != records.KindNumber {
				return records.Null(), fmt.Errorf("cannot negate %v", val.Kind())
			}
			return records.Number(-val.Num()), nil
		case TOKEN_NOT:
			return records.Bool(!Truthy(val)), nil
		}

	case *BinaryOp:
		left, err := e.eval(n.Left, env)
		if err != nil {
			return records.Null(), err
		}

		// Short-circuit forms return an operand, as in JavaScript
		switch n.Op {
		case TOKEN_AND:
			if !Truthy(left) {
				return left, nil
			}
			return e.eval(n.Right, env)
		case TOKEN_OR:
			if Truthy(left) {
				return left, nil
			}
			return e.eval(n.Right, env)
		case TOKEN_NULLISH:
			if !left.IsNull() {
				return left, nil
			}
			return e.eval(n.Right, env)
		}

		right, err := e.eval(n.Right, env)
		if err != nil {
			return records.Null(), err
		}
		return evalBinaryOp(n.Op, left, right)

	case *Conditional:
		cond, err := e.eval(n.Cond, env)
		if err != nil {
			return records.Null(), err
		}
		if Truthy(cond) {
			return e.eval(n.Then, env)
		}
		return e.eval(n.Otherwise, env)

	case *CallExpr:
		if n.Func == "if" {
			return e.evalIf(n, env)
		}
		args, err := e.evalArgs(n.Args, env)
		if err != nil {
			return records.Null(), err
		}
		return callBuiltin(n.Func, args)

	case *MethodCall:
		obj, err := e.eval(n.Obj, env)
		if err != nil {
			return records.Null(), err
		}
		args, err := e.evalArgs(n.Args, env)
		if err != nil {
			return records.Null(), err
		}
		return evalMethod(obj, n.Method, args)

	case *AttrAccess:
		obj, err := e.eval(n.Obj, env)
		if err != nil {
			return records.Null(), err
		}
		return attr(obj, n.Attr), nil

	case *IndexAccess:
		obj, err := e.eval(n.Obj, env)
		if err != nil {
			return records.Null(), err
		}
		index, err := e.eval(n.Index, env)
		if err != nil {
			return records.Null(), err
		}
		return indexValue(obj, index), nil
	}

	return records.Null(), fmt.Errorf("unknown node type %T", node)
}

func (e *Evaluator) evalArgs(nodes []Node, env Env) ([]records.Value, error) {
	args := make([]records.Value, 0, len(nodes))
	for _, arg := range nodes {
		val, err := e.eval(arg, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return args, nil
}

// evalIf only evaluates the chosen branch
func (e *Evaluator) evalIf(call *CallExpr, env Env) (records.Value, error) {
	if len(call.Args) < 2 || len(call.Args) > 3 {
		return records.Null(), fmt.Errorf("if() takes 2 or 3 arguments")
	}
	cond, err := e.eval(call.Args[0], env)
	if err != nil {
		return records.Null(), err
	}
	if Truthy(cond) {
		return e.eval(call.Args[1], env)
	}
	if len(call.Args) == 3 {
		return e.eval(call.Args[2], env)
	}
	return records.Null(), nil
}

// Truthy reports whether v counts as true in a condition
func Truthy(v records.Value) bool {
	switch v.Kind() {
	case records.KindBool:
		return v.BoolVal()
	case records.KindNumber:
		return v.Num() != 0 && !math.IsNaN(v.Num())
	case records.KindString:
		return v.Str() != ""
	case records.KindObject, records.KindArray:
		return true
	default:
		return false
	}
}

func evalBinaryOp(op TokenType, left, right records.Value) (records.Value, error) {
	// String concatenation with +
	if op == TOKEN_PLUS && (left.Kind() == records.KindString || right.Kind() == records.KindString) {
		return records.String(left.Text() + right.Text()), nil
	}

	switch op {
	case TOKEN_EQ:
		return records.Bool(looseEqual(left, right)), nil
	case TOKEN_NE:
		return records.Bool(!looseEqual(left, right)), nil
	case TOKEN_LT, TOKEN_GT, TOKEN_LE, TOKEN_GE:
		if left.Kind() != right.Kind() || (left.Kind() != records.KindNumber && left.Kind() != records.KindString) {
			return records.Null(), fmt.Errorf("cannot compare %v and %v", left.Kind(), right.Kind())
		}
		c := records.Compare(left, right)
		switch op {
		case TOKEN_LT:
			return records.Bool(c < 0), nil
		case TOKEN_GT:
			return records.Bool(c > 0), nil
		case TOKEN_LE:
			return records.Bool(c <= 0), nil
		default:
			return records.Bool(c >= 0), nil
		}
	}

	if left.Kind() != records.KindNumber || right.Kind() != records.KindNumber {
		return records.Null(), fmt.Errorf("arithmetic operations require numbers, got %v and %v", left.Kind(), right.Kind())
	}
	l, r := left.Num(), right.Num()

	switch op {
	case TOKEN_PLUS:
		return records.Number(l + r), nil
	case TOKEN_MINUS:
		return records.Number(l - r), nil
	case TOKEN_STAR:
		return records.Number(l * r), nil
	case TOKEN_SLASH:
		if r == 0 {
			return records.Null(), fmt.Errorf("division by zero")
		}
		return records.Number(l / r), nil
	case TOKEN_PERCENT:
		if r == 0 {
			return records.Null(), fmt.Errorf("modulo by zero")
		}
		return records.Number(math.Mod(l, r)), nil
	case TOKEN_POWER:
		return records.Number(math.Pow(l, r)), nil
	}

	return records.Null(), fmt.Errorf("unknown operator")
}

// looseEqual compares numbers numerically and otherwise requires equal
// kinds; a number and its decimal string are equal since CSV sources
// deliver numbers as text
func looseEqual(a, b records.Value) bool {
	if a.Kind() == b.Kind() {
		return a.Equal(b)
	}
	if a.Kind() == records.KindNumber && b.Kind() == records.KindString {
		a, b = b, a
	}
	if a.Kind() == records.KindString && b.Kind() == records.KindNumber {
		f, err := strconv.ParseFloat(strings.TrimSpace(a.Str()), 64)
		return err == nil && f == b.Num()
	}
	return false
}

// attr reads a field of an object, or length of a string or array.
// Missing fields are null rather than errors, matching rows that lack
// a sampled field.
func attr(obj records.Value, name string) records.Value {
	switch obj.Kind() {
	case records.KindObject:
		v, _ := obj.Fields().Get(name)
		return v
	case records.KindArray:
		if name == "length" {
			return records.Number(float64(len(obj.Items())))
		}
	case records.KindString:
		if name == "length" {
			return records.Number(float64(len([]rune(obj.Str()))))
		}
	}
	return records.Null()
}

func indexValue(obj, index records.Value) records.Value {
	switch obj.Kind() {
	case records.KindObject:
		return attr(obj, index.Text())
	case records.KindArray:
		items := obj.Items()
		if index.Kind() != records.KindNumber {
			return attr(obj, index.Text())
		}
		i := int(index.Num())
		if i < 0 || i >= len(items) {
			return records.Null()
		}
		return items[i]
	case records.KindString:
		runes := []rune(obj.Str())
		if index.Kind() != records.KindNumber {
			return records.Null()
		}
		i := int(index.Num())
		if i < 0 || i >= len(runes) {
			return records.Null()
		}
		return records.String(string(runes[i]))
	}
	return records.Null()
}

func evalMethod(obj records.Value, method string, args []records.Value) (records.Value, error) {
	arg := func(i int) string {
		if i < len(args) {
			return args[i].Text()
		}
		return ""
	}
	want := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("%s() takes %d argument(s)", method, n)
		}
		return nil
	}

	switch obj.Kind() {
	case records.KindString:
		s := obj.Str()
		switch method {
		case "upper", "toUpperCase":
			return records.String(strings.ToUpper(s)), nil
		case "lower", "toLowerCase":
			return records.String(strings.ToLower(s)), nil
		case "strip", "trim":
			return records.String(strings.TrimSpace(s)), nil
		case "startswith", "startsWith":
			if err := want(1); err != nil {
				return records.Null(), err
			}
			return records.Bool(strings.HasPrefix(s, arg(0))), nil
		case "endswith", "endsWith":
			if err := want(1); err != nil {
				return records.Null(), err
			}
			return records.Bool(strings.HasSuffix(s, arg(0))), nil
		case "contains", "includes":
			if err := want(1); err != nil {
				return records.Null(), err
			}
			return records.Bool(strings.Contains(s, arg(0))), nil
		case "replace":
			if err := want(2); err != nil {
				return records.Null(), err
			}
			return records.String(strings.ReplaceAll(s, arg(0), arg(1))), nil
		case "split":
			if err := want(1); err != nil {
				return records.Null(), err
			}
			parts := strings.Split(s, arg(0))
			items := make([]records.Value, len(parts))
			for i, part := range parts {
				items[i] = records.String(part)
			}
			return records.Array(items), nil
		case "find", "indexOf":
			if err := want(1); err != nil {
				return records.Null(), err
			}
			return records.Number(float64(strings.Index(s, arg(0)))), nil
		case "count":
			if err := want(1); err != nil {
				return records.Null(), err
			}
			return records.Number(float64(strings.Count(s, arg(0)))), nil
		}

	case records.KindNumber:
		switch method {
		case "toFixed":
			digits := 0
			if len(args) > 0 && args[0].Kind() == records.KindNumber {
				digits = int(args[0].Num())
			}
			return records.String(strconv.FormatFloat(obj.Num(), 'f', digits, 64)), nil
		}

	case records.KindArray:
		switch method {
		case "includes", "contains":
			if err := want(1); err != nil {
				return records.Null(), err
			}
			for _, item := range obj.Items() {
				if looseEqual(item, args[0]) {
					return records.Bool(true), nil
				}
			}
			return records.Bool(false), nil
		case "join":
			parts := make([]string, len(obj.Items()))
			for i, item := range obj.Items() {
				parts[i] = item.Text()
			}
			sep := ","
			if len(args) > 0 {
				sep = arg(0)
			}
			return records.String(strings.Join(parts, sep)), nil
		}
	}

	return records.Null(), fmt.Errorf("unknown method %s on %v", method, obj.Kind())
}
