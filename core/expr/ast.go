/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Tablegrid Authors
*/

package expr

// Node is the interface for all AST nodes
type Node interface {
	node()
}

// NumberLit represents a numeric literal
type NumberLit struct {
	Value float64
}

func (n *NumberLit) node() {}

// StringLit represents a string literal
type StringLit struct {
	Value string
}

func (n *StringLit) node() {}

// BoolLit represents true or false
type BoolLit struct {
	Value bool
}

func (n *BoolLit) node() {}

// NullLit represents null
type NullLit struct{}

func (n *NullLit) node() {}

// Ident represents a name looked up in the evaluation environment
type Ident struct {
	Name string
}

func (n *Ident) node() {}

// BinaryOp represents a binary operation
type BinaryOp struct {
	Op    TokenType
	Left  Node
	Right Node
}

func (n *BinaryOp) node() {}

// UnaryOp represents a unary operation
type UnaryOp struct {
	Op   TokenType
	Expr Node
}

func (n *UnaryOp) node() {}

// Conditional represents cond ? then : otherwise
type Conditional struct {
	Cond      Node
	Then      Node
	Otherwise Node
}

func (n *Conditional) node() {}

// CallExpr represents a function call
type CallExpr struct {
	Func string
	Args []Node
}

func (n *CallExpr) node() {}

// MethodCall represents obj.method(args)
type MethodCall struct {
	Obj    Node
	Method string
	Args   []Node
}

func (n *MethodCall) node() {}

// AttrAccess represents field access on an object (e.g., currentRow.name)
type AttrAccess struct {
	Obj  Node
	Attr string
}

func (n *AttrAccess) node() {}

// IndexAccess represents obj[key], used for field names that are not
// identifiers and for array positions
type IndexAccess struct {
	Obj   Node
	Index Node
}

func (n *IndexAccess) node() {}
