// Package filter decides which channel feed entries are published as sermons.
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind is the type of a rule.
type Kind string

const (
	Include   Kind = "include"
	Exclude   Kind = "exclude"
	IncludeRe Kind = "include_re"
	ExcludeRe Kind = "exclude_re"
)

// Scope selects the part of an entry a rule looks at.
type Scope string

const (
	ScopeAll         Scope = "all"
	ScopeTitle       Scope = "title"
	ScopeDescription Scope = "description"
)

// Rule is a single include or exclude condition.
// Word rules match a case-insensitive substring, regex rules a case-insensitive pattern.
type Rule struct {
	Kind  Kind
	Scope Scope
	Value string
}

// Item is the text of a feed entry to be matched.
type Item struct {
	Title       string
	Description string
}

// ErrInvalidRule is returned by New for rules with an unknown kind or scope.
var ErrInvalidRule = errors.New("invalid filter rule")

type compiled struct {
	Rule
	word string
	re   *regexp.Regexp
}

// Set is a compiled list of rules. The zero value and nil pass every item.
type Set struct {
	rules       []compiled
	hasIncludes bool
}

// New compiles rules. Word rules with a blank value are dropped.
func New(rules []Rule) (*Set, error) {
	s := &Set{}
	for _, r := range rules {
		if r.Scope == "" {
			r.Scope = ScopeAll
		}
		switch r.Scope {
		case ScopeAll, ScopeTitle, ScopeDescription:
		default:
			return nil, fmt.Errorf("%w: scope %q", ErrInvalidRule, r.Scope)
		}

		c := compiled{Rule: r}
		switch r.Kind {
		case Include, Exclude:
			c.word = strings.ToLower(strings.TrimSpace(r.Value))
			if c.word == "" {
				continue
			}
		case IncludeRe, ExcludeRe:
			re, err := compile(r.Value)
			if err != nil {
				return nil, err
			}
			c.re = re
		default:
			return nil, fmt.Errorf("%w: kind %q", ErrInvalidRule, r.Kind)
		}

		if r.Kind == Include || r.Kind == IncludeRe {
			s.hasIncludes = true
		}
		s.rules = append(s.rules, c)
	}
	return s, nil
}

// Words builds one rule of the given kind and scope per value.
func Words(kind Kind, scope Scope, values []string) []Rule {
	rules := make([]Rule, 0, len(values))
	for _, v := range values {
		rules = append(rules, Rule{Kind: kind, Scope: scope, Value: v})
	}
	return rules
}

// Len returns the number of active rules.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Match reports whether item passes the set.
// Include rules use OR logic (at least one must match).
// Exclude rules use AND logic (none may match) and win over includes.
func (s *Set) Match(item Item) bool {
	if s.Len() == 0 {
		return true
	}

	included := false
	for _, r := range s.rules {
		if !r.matches(item) {
			continue
		}
		switch r.Kind {
		case Exclude, ExcludeRe:
			return false
		default:
			included = true
		}
	}
	return included || !s.hasIncludes
}

func (r compiled) matches(item Item) bool {
	text := textForScope(item, r.Scope)
	if r.re != nil {
		return r.re.MatchString(text)
	}
	return strings.Contains(text, r.word)
}

func textForScope(item Item, scope Scope) string {
	switch scope {
	case ScopeTitle:
		return strings.ToLower(item.Title)
	case ScopeDescription:
		return strings.ToLower(item.Description)
	default:
		return strings.ToLower(item.Title + " " + item.Description)
	}
}

// ValidateRegex checks that pattern compiles as a rule pattern.
func ValidateRegex(pattern string) error {
	_, err := compile(pattern)
	return err
}

func compile(pattern string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrInvalidRule)
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %w", pattern, err)
	}
	return re, nil
}
