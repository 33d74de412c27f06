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

type builtin struct {
	minArgs int
	maxArgs int // -1 for variadic
	fn      func(args []records.Value) (records.Value, error)
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"len":      {1, 1, fnLen},
		"str":      {1, 1, func(a []records.Value) (records.Value, error) { return records.String(a[0].Text()), nil }},
		"num":      {1, 1, fnNum},
		"float":    {1, 1, fnNum},
		"int":      {1, 1, fnInt},
		"bool":     {1, 1, func(a []records.Value) (records.Value, error) { return records.Bool(Truthy(a[0])), nil }},
		"abs":      {1, 1, numeric("abs", math.Abs)},
		"floor":    {1, 1, numeric("floor", math.Floor)},
		"ceil":     {1, 1, numeric("ceil", math.Ceil)},
		"round":    {1, 2, fnRound},
		"min":      {1, -1, extreme("min", -1)},
		"max":      {1, -1, extreme("max", 1)},
		"concat":   {0, -1, fnConcat},
		"upper":    {1, 1, text(strings.ToUpper)},
		"lower":    {1, 1, text(strings.ToLower)},
		"strip":    {1, 1, text(strings.TrimSpace)},
		"trim":     {1, 1, text(strings.TrimSpace)},
		"replace":  {3, 3, fnReplace},
		"substr":   {2, 3, fnSubstr},
		"contains": {2, 2, fnContains},
		"coalesce": {1, -1, fnCoalesce},
		"isnull":   {1, 1, func(a []records.Value) (records.Value, error) { return records.Bool(a[0].IsNull()), nil }},
		"rgb":      {3, 3, fnRGB},
		"rgba":     {4, 4, fnRGB},
		// if is evaluated lazily by the evaluator; listed here for arity checks
		"if": {2, 3, nil},
	}
}

// Functions returns the names of the built-in functions
func Functions() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

func callBuiltin(name string, args []records.Value) (records.Value, error) {
	b, ok := builtins[name]
	if !ok || b.fn == nil {
		return records.Null(), fmt.Errorf("unknown function: %s", name)
	}
	if err := b.checkArity(name, len(args)); err != nil {
		return records.Null(), err
	}
	return b.fn(args)
}

func (b builtin) checkArity(name string, n int) error {
	if n < b.minArgs || (b.maxArgs >= 0 && n > b.maxArgs) {
		switch {
		case b.maxArgs < 0:
			return fmt.Errorf("%s() takes at least %d argument(s)", name, b.minArgs)
		case b.minArgs == b.maxArgs:
			return fmt.Errorf("%s() takes %d argument(s)", name, b.minArgs)
		default:
			return fmt.Errorf("%s() takes %d to %d arguments", name, b.minArgs, b.maxArgs)
		}
	}
	return nil
}

func toNumber(v records.Value) (float64, bool) {
	switch v.Kind() {
	case records.KindNumber:
		return v.Num(), true
	case records.KindBool:
		if v.BoolVal() {
			return 1, true
		}
		return 0, true
	case records.KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str()), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func fnLen(a []records.Value) (records.Value, error) {
	switch a[0].Kind() {
	case records.KindString:
		return records.Number(float64(len([]rune(a[0].Str())))), nil
	case records.KindArray:
		return records.Number(float64(len(a[0].Items()))), nil
	case records.KindObject:
		return records.Number(float64(a[0].Fields().Len())), nil
	}
	return records.Null(), fmt.Errorf("len() not supported for %v", a[0].Kind())
}

func fnNum(a []records.Value) (records.Value, error) {
	f, ok := toNumber(a[0])
	if !ok {
		return records.Null(), fmt.Errorf("cannot convert %q to number", a[0].Text())
	}
	return records.Number(f), nil
}

func fnInt(a []records.Value) (records.Value, error) {
	f, ok := toNumber(a[0])
	if !ok {
		return records.Null(), fmt.Errorf("cannot convert %q to int", a[0].Text())
	}
	return records.Number(math.Trunc(f)), nil
}

func numeric(name string, op func(float64) float64) func([]records.Value) (records.Value, error) {
	return func(a []records.Value) (records.Value, error) {
		if a[0].Kind() != records.KindNumber {
			return records.Null(), fmt.Errorf("%s() requires a number", name)
		}
		return records.Number(op(a[0].Num())), nil
	}
}

func fnRound(a []records.Value) (records.Value, error) {
	if a[0].Kind() != records.KindNumber {
		return records.Null(), fmt.Errorf("round() requires a number")
	}
	digits := 0.0
	if len(a) == 2 {
		digits = a[1].Num()
	}
	scale := math.Pow(10, digits)
	return records.Number(math.Round(a[0].Num()*scale) / scale), nil
}

func extreme(name string, sign int) func([]records.Value) (records.Value, error) {
	return func(a []records.Value) (records.Value, error) {
		items := a
		if len(a) == 1 && a[0].Kind() == records.KindArray {
			items = a[0].Items()
		}
		if len(items) == 0 {
			return records.Null(), fmt.Errorf("%s() of empty sequence", name)
		}
		best := items[0]
		for _, v := range items[1:] {
			if records.Compare(v, best)*sign > 0 {
				best = v
			}
		}
		return best, nil
	}
}

func fnConcat(a []records.Value) (records.Value, error) {
	var sb strings.Builder
	for _, v := range a {
		sb.WriteString(v.Text())
	}
	return records.String(sb.String()), nil
}

func text(op func(string) string) func([]records.Value) (records.Value, error) {
	return func(a []records.Value) (records.Value, error) {
		return records.String(op(a[0].Text())), nil
	}
}

func fnReplace(a []records.Value) (records.Value, error) {
	return records.String(strings.ReplaceAll(a[0].Text(), a[1].Text(), a[2].Text())), nil
}

func fnSubstr(a []records.Value) (records.Value, error) {
	runes := []rune(a[0].Text())
	start := clampIndex(int(a[1].Num()), len(runes))
	end := len(runes)
	if len(a) == 3 {
		end = clampIndex(start+int(a[2].Num()), len(runes))
	}
	if end < start {
		end = start
	}
	return records.String(string(runes[start:end])), nil
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}

func fnContains(a []records.Value) (records.Value, error) {
	if a[0].Kind() == records.KindArray {
		for _, item := range a[0].Items() {
			if looseEqual(item, a[1]) {
				return records.Bool(true), nil
			}
		}
		return records.Bool(false), nil
	}
	return records.Bool(strings.Contains(a[0].Text(), a[1].Text())), nil
}

func fnCoalesce(a []records.Value) (records.Value, error) {
	for _, v := range a {
		if !v.IsNull() && v.Text() != "" {
			return v, nil
		}
	}
	return records.Null(), nil
}

// fnRGB formats rgb(r, g, b) and rgba(r, g, b, a) color strings
func fnRGB(a []records.Value) (records.Value, error) {
	parts := make([]string, len(a))
	for i, v := range a {
		f, ok := toNumber(v)
		if !ok {
			return records.Null(), fmt.Errorf("color component %q is not a number", v.Text())
		}
		if i < 3 {
			f = math.Max(0, math.Min(255, math.Round(f)))
		} else {
			f = math.Max(0, math.Min(1, f))
		}
		parts[i] = records.FormatNumber(f)
	}
	if len(a) == 4 {
		return records.String("rgba(" + strings.Join(parts, ", ") + ")"), nil
	}
	return records.String("rgb(" + strings.Join(parts, ", ") + ")"), nil
}
