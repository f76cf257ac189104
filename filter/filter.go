// Package filter compiles expr expressions into dataset predicates for
// client-side filtering of list results.
package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/onsq/onsq/ons"
)

// Filter is a compiled dataset predicate.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile builds a dataset filter from an expr expression. Dataset fields
// are exposed as ID, Title, Description, State and Keywords; matches(s)
// reports a case-insensitive substring match against title, description or
// id, mirroring the search operation.
//
// Example expressions:
//
//	matches("inflation")
//	State == "published" and matches("trade")
//	"health" in Keywords
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("empty filter expression")
	}

	program, err := expr.Compile(expression,
		expr.Env(newEnv(ons.Dataset{})),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression %q: %w", expression, err)
	}

	return &Filter{
		expression: expression,
		program:    program,
	}, nil
}

// Expression returns the source expression this filter was compiled from.
func (f *Filter) Expression() string {
	return f.expression
}

// Match reports whether the dataset satisfies the expression.
func (f *Filter) Match(dataset ons.Dataset) (bool, error) {
	out, err := expr.Run(f.program, newEnv(dataset))
	if err != nil {
		return false, fmt.Errorf("filter evaluation failed: %w", err)
	}

	matched, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q did not evaluate to a boolean", f.expression)
	}
	return matched, nil
}

// Apply returns the datasets matching the expression, preserving order.
func (f *Filter) Apply(datasets []ons.Dataset) ([]ons.Dataset, error) {
	matched := make([]ons.Dataset, 0, len(datasets))
	for _, dataset := range datasets {
		ok, err := f.Match(dataset)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, dataset)
		}
	}
	return matched, nil
}

// newEnv builds the evaluation environment for one dataset.
func newEnv(dataset ons.Dataset) map[string]any {
	return map[string]any{
		"ID":          dataset.ID,
		"Title":       dataset.Title,
		"Description": dataset.Description,
		"State":       dataset.State,
		"Keywords":    dataset.Keywords,
		"matches": func(s string) bool {
			needle := strings.ToLower(s)
			return strings.Contains(strings.ToLower(dataset.Title), needle) ||
				strings.Contains(strings.ToLower(dataset.Description), needle) ||
				strings.Contains(strings.ToLower(dataset.ID), needle)
		},
	}
}
