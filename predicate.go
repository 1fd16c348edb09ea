package xlcull

import (
	"fmt"
	"maps"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Predicate decides whether a row is kept, given the row's cell in the
// condition's column.
type Predicate interface {
	Match(c Cell) (bool, error)
}

// PredicateFunc adapts an ordinary function to a Predicate.
type PredicateFunc func(c Cell) bool

// Match calls fn(c).
func (fn PredicateFunc) Match(c Cell) (bool, error) {
	return fn(c), nil
}

// Condition pairs a column header with the predicate applied to its cells.
type Condition struct {
	Column    string
	Predicate Predicate
}

// Where builds a Condition from a header name and a plain function.
func Where(column string, fn func(c Cell) bool) Condition {
	return Condition{Column: column, Predicate: PredicateFunc(fn)}
}

// WhereExpr builds a Condition from a header name and an expression.
// See CompilePredicate for the variables available to the expression.
func WhereExpr(column, expression string, vars map[string]any) (Condition, error) {
	p, err := CompilePredicate(expression, vars)
	if err != nil {
		return Condition{}, err
	}
	return Condition{Column: column, Predicate: p}, nil
}

// ExprPredicate is a Predicate backed by an expr-lang boolean expression.
type ExprPredicate struct {
	expression string
	program    *vm.Program
	vars       map[string]any
}

// programs caches compiled expressions: expression string → *vm.Program.
var programs sync.Map

// CompilePredicate compiles a boolean expression evaluated once per cell.
// The expression sees v (typed cell value), raw (cell text), row and ref,
// plus any extra vars, e.g. `v >= 10 && key == v`.
func CompilePredicate(expression string, vars map[string]any) (*ExprPredicate, error) {
	if expression == "" {
		return nil, fmt.Errorf("compile predicate: empty expression")
	}
	program, err := compileProgram(expression)
	if err != nil {
		return nil, fmt.Errorf("compile predicate %q: %w", expression, err)
	}
	return &ExprPredicate{
		expression: expression,
		program:    program,
		vars:       maps.Clone(vars),
	}, nil
}

func compileProgram(expression string) (*vm.Program, error) {
	if cached, ok := programs.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	programs.Store(expression, program)
	return program, nil
}

// Match evaluates the expression against c. A nil result counts as false;
// any other non-bool result is an error.
func (p *ExprPredicate) Match(c Cell) (bool, error) {
	env := make(map[string]any, len(p.vars)+4)
	maps.Copy(env, p.vars)
	env["v"] = c.Value
	env["raw"] = c.Raw
	env["row"] = c.Row
	env["ref"] = c.Ref

	result, err := expr.Run(p.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate %q at %s: %w", p.expression, c.Ref, err)
	}
	if result == nil {
		return false, nil
	}
	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("predicate %q evaluated to %T at %s, expected bool", p.expression, result, c.Ref)
	}
	return b, nil
}

// String returns the source expression.
func (p *ExprPredicate) String() string { return p.expression }
