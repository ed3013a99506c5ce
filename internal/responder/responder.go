// Package responder implements the FAQ keyword matching engine.
package responder

import (
	"strings"

	"church_site/internal/model"
)

// Responder answers free text with the first FAQ rule whose keywords appear in it.
// It is immutable after construction and safe for concurrent use.
type Responder struct {
	rules    []model.Rule
	fallback string
}

// New creates a Responder over a private copy of rules.
// Keywords are lower-cased once; empty keywords are dropped so they cannot match everything.
func New(rules []model.Rule, fallback string) *Responder {
	own := make([]model.Rule, 0, len(rules))
	for _, r := range rules {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw == "" {
				continue
			}
			kws = append(kws, strings.ToLower(kw))
		}
		own = append(own, model.Rule{ID: r.ID, Keywords: kws, Response: r.Response})
	}
	return &Responder{rules: own, fallback: fallback}
}

// Respond returns the response of the first matching rule, or the fallback.
// Matching is case-insensitive substring containment: "give" matches "forgiveness".
func (r *Responder) Respond(input string) string {
	if rule, ok := r.Match(input); ok {
		return rule.Response
	}
	return r.fallback
}

// Match returns the first rule, in declaration order, with a keyword contained in input.
func (r *Responder) Match(input string) (model.Rule, bool) {
	text := strings.ToLower(input)
	for _, rule := range r.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule, true
			}
		}
	}
	return model.Rule{}, false
}

// Fallback returns the default response used when no rule matches.
func (r *Responder) Fallback() string {
	return r.fallback
}
