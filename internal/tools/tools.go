// Package tools exposes the outing helpers as named, described functions a
// chat model may choose to call.
package tools

import (
	"context"
	"fmt"
	"sort"
)

// Param describes one string argument of a tool.
type Param struct {
	Name        string
	Description string
}

// Tool is a callable function offered to the model. Invoke receives the
// arguments the model produced; missing arguments read as empty strings.
type Tool interface {
	Name() string
	Description() string
	Params() []Param
	Invoke(ctx context.Context, args map[string]any) (string, error)
}

type funcTool struct {
	name        string
	description string
	params      []Param
	fn          func(args map[string]string) string
}

func (t funcTool) Name() string        { return t.name }
func (t funcTool) Description() string { return t.description }
func (t funcTool) Params() []Param     { return append([]Param(nil), t.params...) }

func (t funcTool) Invoke(ctx context.Context, args map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	values := make(map[string]string, len(t.params))
	for _, p := range t.params {
		values[p.Name] = StringArg(args, p.Name)
	}
	return t.fn(values), nil
}

// StringArg reads a single argument as a string. Non-string values are
// formatted with fmt; absent keys yield "".
func StringArg(args map[string]any, name string) string {
	v, ok := args[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Set is an immutable collection of tools addressed by name.
type Set struct {
	byName map[string]Tool
	order  []string
}

// NewSet builds a set. Later tools with a duplicate name replace earlier ones.
func NewSet(ts ...Tool) *Set {
	s := &Set{byName: make(map[string]Tool, len(ts))}
	for _, t := range ts {
		if _, exists := s.byName[t.Name()]; !exists {
			s.order = append(s.order, t.Name())
		}
		s.byName[t.Name()] = t
	}
	return s
}

// Lookup returns the tool registered under name.
func (s *Set) Lookup(name string) (Tool, bool) {
	if s == nil {
		return nil, false
	}
	t, ok := s.byName[name]
	return t, ok
}

// All returns the tools in registration order.
func (s *Set) All() []Tool {
	if s == nil {
		return nil
	}
	out := make([]Tool, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// Names returns the sorted tool names.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := append([]string(nil), s.order...)
	sort.Strings(names)
	return names
}

// Len reports the number of tools.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}
