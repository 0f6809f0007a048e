// Copyright 2020 The Kubernetes Authors.
// SPDX-License-Identifier: Apache-2.0
//
// Package selector implements the label/annotation query grammar used by
// patch targets (spec.md §4.K), ported from
// original_source/kustomizer/src/selector.rs.
package selector

import (
	"fmt"
	"strings"
)

// Op is a single term's comparison operator.
type Op int

const (
	OpExists Op = iota
	OpEquals
	OpNotEquals
	OpIn
	OpNotIn
)

// Term is one comma-separated clause of a Selector.
type Term struct {
	Key    string
	Op     Op
	Values []string
}

// Selector is a parsed `expr := term ("," term)*` expression. All is
// conjunction: every term must match (spec.md §4.K).
type Selector struct {
	Terms []Term
}

// Parse parses a selector expression string.
func Parse(expr string) (*Selector, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return &Selector{}, nil
	}
	var terms []Term
	for _, raw := range splitTerms(expr) {
		t, err := parseTerm(strings.TrimSpace(raw))
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return &Selector{Terms: terms}, nil
}

// splitTerms splits a selector expression on top-level commas, treating
// commas inside a "(...)" value list (the "in"/"notin" form) as part of
// the enclosing term rather than a term separator.
func splitTerms(expr string) []string {
	var out []string
	depth := 0
	start := 0
	for i, r := range expr {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, expr[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, expr[start:])
	return out
}

func parseTerm(raw string) (Term, error) {
	if raw == "" {
		return Term{}, fmt.Errorf("selector: empty term")
	}

	if idx := strings.Index(raw, "!="); idx >= 0 {
		return Term{Key: strings.TrimSpace(raw[:idx]), Op: OpNotEquals, Values: []string{strings.TrimSpace(raw[idx+2:])}}, nil
	}
	if idx := strings.Index(raw, "=="); idx >= 0 {
		return Term{Key: strings.TrimSpace(raw[:idx]), Op: OpEquals, Values: []string{strings.TrimSpace(raw[idx+2:])}}, nil
	}
	if idx := strings.Index(raw, "="); idx >= 0 {
		return Term{Key: strings.TrimSpace(raw[:idx]), Op: OpEquals, Values: []string{strings.TrimSpace(raw[idx+1:])}}, nil
	}

	if fields := strings.Fields(raw); len(fields) >= 2 && (fields[1] == "in" || fields[1] == "notin") {
		key := fields[0]
		op := OpIn
		keyword := "in"
		if fields[1] == "notin" {
			op = OpNotIn
			keyword = "notin"
		}
		rest := strings.TrimSpace(raw[len(key):])
		rest = strings.TrimPrefix(rest, keyword)
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
			return Term{}, fmt.Errorf("selector: malformed %s(...) list in %q", fields[1], raw)
		}
		inner := rest[1 : len(rest)-1]
		var values []string
		for _, v := range strings.Split(inner, ",") {
			values = append(values, strings.TrimSpace(v))
		}
		return Term{Key: key, Op: op, Values: values}, nil
	}

	return Term{Key: raw, Op: OpExists}, nil
}

// Matches reports whether labels (or annotations) satisfies every term.
// A nil map never matches a non-empty selector (spec.md §4.K).
func (s *Selector) Matches(values map[string]string) bool {
	if s == nil || len(s.Terms) == 0 {
		return true
	}
	if values == nil {
		return false
	}
	for _, t := range s.Terms {
		if !t.matches(values) {
			return false
		}
	}
	return true
}

func (t Term) matches(values map[string]string) bool {
	v, ok := values[t.Key]
	switch t.Op {
	case OpExists:
		return ok
	case OpEquals:
		return ok && len(t.Values) == 1 && v == t.Values[0]
	case OpNotEquals:
		return !ok || len(t.Values) != 1 || v != t.Values[0]
	case OpIn:
		if !ok {
			return false
		}
		for _, want := range t.Values {
			if v == want {
				return true
			}
		}
		return false
	case OpNotIn:
		if !ok {
			return true
		}
		for _, want := range t.Values {
			if v == want {
				return false
			}
		}
		return true
	}
	return false
}
