package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Evaluator applies a rule table to analysis output.
type Evaluator struct {
	rules []Rule
}

// New creates an Evaluator over DefaultRules(cfg).
func New(cfg *Config) *Evaluator {
	return NewWithRules(DefaultRules(cfg))
}

// NewWithRules creates an Evaluator over a custom table.
func NewWithRules(rules []Rule) *Evaluator {
	return &Evaluator{rules: rules}
}

// Evaluate returns the actions triggered by output in table order.
// A rule that panics is skipped and reported in the returned error;
// actions from the other rules are still returned.
func (e *Evaluator) Evaluate(output map[string]any) ([]Action, error) {
	env := NewEnvelope(output)
	actions := make([]Action, 0, len(e.rules))

	var errs []error
	for _, r := range e.rules {
		action, fired, err := apply(r, env)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if fired {
			actions = append(actions, action)
		}
	}

	return actions, errors.Join(errs...)
}

func apply(r Rule, env Envelope) (action Action, fired bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("rule %s: %v", r.Name, rec)
			fired = false
		}
	}()

	if !r.Match(env) {
		return Action{}, false, nil
	}
	return Action{Kind: r.Kind, Rule: r.Name, Payload: r.Payload(env)}, true, nil
}

// mentions reports whether keyword appears in v, searching map keys and
// values and slice elements recursively.
func mentions(v any, keyword string) bool {
	if keyword == "" {
		return false
	}
	switch t := v.(type) {
	case string:
		return strings.Contains(t, keyword)
	case map[string]any:
		for k, val := range t {
			if strings.Contains(k, keyword) || mentions(val, keyword) {
				return true
			}
		}
	case []any:
		for _, val := range t {
			if mentions(val, keyword) {
				return true
			}
		}
	case []string:
		for _, val := range t {
			if strings.Contains(val, keyword) {
				return true
			}
		}
	}
	return false
}
