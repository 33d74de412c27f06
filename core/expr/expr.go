/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Tablegrid Authors

Package expr provides the expression interpreter behind computed row colors.
It supports:
  - Names bound by the caller (e.g., currentRow, currentIndex, columnTitle)
  - Field access: currentRow.status, currentRow["unit price"], tags[0]
  - Arithmetic operators: +, -, *, /, %, **
  - Comparison operators: ==, !=, <, >, <=, >= (=== and !== are accepted)
  - Logical operators: and, or, not, &&, ||, !, and ?? for null fallback
  - Conditionals: cond ? a : b and if(cond, a, b)
  - String concatenation with +
  - Literals: "hello", 'hello', 123, 3.14, true, false, null
  - Built-in functions: len(), str(), num(), int(), bool(), abs(), floor(),
    ceil(), round(), min(), max(), concat(), upper(), lower(), trim(),
    replace(), substr(), contains(), coalesce(), isnull(), rgb(), rgba()
  - Methods: .toUpperCase(), .toLowerCase(), .trim(), .startsWith(),
    .endsWith(), .includes(), .replace(), .split(), .indexOf(), .toFixed(),
    .join() and their Python-style spellings
*/
package expr

import (
	"fmt"
	"sort"

	"github.com/google/tablegrid/core/records"
)

// Expression represents a compiled expression ready for evaluation
type Expression struct {
	source    string
	ast       Node
	evaluator *Evaluator
}

// Compile parses and compiles an expression string
func Compile(source string) (*Expression, error) {
	if source == "" {
		return nil, fmt.Errorf("empty expression")
	}

	parser := NewParser(source)
	ast, err := parser.Parse()
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if err := checkCalls(ast); err != nil {
		return nil, err
	}

	return &Expression{
		source:    source,
		ast:       ast,
		evaluator: NewEvaluator(ast),
	}, nil
}

// Source returns the original expression source
func (e *Expression) Source() string {
	return e.source
}

// Names returns the top-level names the expression reads, sorted
func (e *Expression) Names() []string {
	seen := make(map[string]bool)
	walk(e.ast, func(n Node) {
		if id, ok := n.(*Ident); ok {
			seen[id.Name] = true
		}
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckNames returns an error naming the first name the expression reads
// that is not in allowed
func (e *Expression) CheckNames(allowed ...string) error {
	ok := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		ok[name] = true
	}
	for _, name := range e.Names() {
		if !ok[name] {
			return fmt.Errorf("unknown name %q in %q", name, e.source)
		}
	}
	return nil
}

// Eval evaluates the expression against env
func (e *Expression) Eval(env Env) (records.Value, error) {
	return e.evaluator.Eval(env)
}

// EvalString evaluates the expression and returns the result as display text
func (e *Expression) EvalString(env Env) (string, error) {
	val, err := e.evaluator.Eval(env)
	if err != nil {
		return "", err
	}
	return val.Text(), nil
}

// EvalNumber evaluates the expression and returns the result as a number
func (e *Expression) EvalNumber(env Env) (float64, error) {
	val, err := e.evaluator.Eval(env)
	if err != nil {
		return 0, err
	}
	if val.Kind() != records.KindNumber {
		return 0, fmt.Errorf("expression result is not a number")
	}
	return val.Num(), nil
}

// EvalBool evaluates the expression and returns its truthiness
func (e *Expression) EvalBool(env Env) (bool, error) {
	val, err := e.evaluator.Eval(env)
	if err != nil {
		return false, err
	}
	return Truthy(val), nil
}

// checkCalls rejects unknown functions and wrong argument counts up front
func checkCalls(ast Node) error {
	var err error
	walk(ast, func(n Node) {
		call, ok := n.(*CallExpr)
		if !ok || err != nil {
			return
		}
		b, known := builtins[call.Func]
		if !known {
			err = fmt.Errorf("unknown function: %s", call.Func)
			return
		}
		err = b.checkArity(call.Func, len(call.Args))
	})
	return err
}

// walk visits every node of the tree in depth-first order
func walk(node Node, visit func(Node)) {
	if node == nil {
		return
	}
	visit(node)
	switch n := node.(type) {
	case *BinaryOp:
		walk(n.Left, visit)
		walk(n.Right, visit)
	case *UnaryOp:
		walk(n.Expr, visit)
	case *Conditional:
		walk(n.Cond, visit)
		walk(n.Then, visit)
		walk(n.Otherwise, visit)
	case *CallExpr:
		for _, arg := range n.Args {
			walk(arg, visit)
		}
	case *MethodCall:
		walk(n.Obj, visit)
		for _, arg := range n.Args {
			walk(arg, visit)
		}
	case *AttrAccess:
		walk(n.Obj, visit)
	case *IndexAccess:
		walk(n.Obj, visit)
		walk(n.Index, visit)
	}
}
