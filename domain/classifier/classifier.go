// Package classifier turns free-form text into a typed QR payload.
package classifier

import (
	"regexp"
	"strings"

	"github.com/prasetyowira/qrgen/domain/payload"
)

// Result is the outcome of one classification.
type Result struct {
	Payload string       `json:"payload"`
	Kind    payload.Kind `json:"type"`
}

// rule pairs a predicate with the transform applied when it matches.
type rule struct {
	name    string
	matches func(s string) bool
	build   func(s string) Result
}

var (
	domainPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,}$`)
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern  = regexp.MustCompile(`^\+?[0-9\s\-()]{10,}$`)
	phoneSeps     = regexp.MustCompile(`[\s\-()]`)
)

// rules are evaluated in order and the first match wins. Inputs can satisfy
// several predicates, so the order is part of the contract.
var rules = []rule{
	{
		name:    "domain",
		matches: func(s string) bool { return domainPattern.MatchString(s) && !strings.ContainsAny(s, " \t\n\r") },
		build:   func(s string) Result { return Result{Payload: "https://" + s, Kind: payload.KindWebsite} },
	},
	{
		name:    "url",
		matches: func(s string) bool { return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") },
		build:   func(s string) Result { return Result{Payload: s, Kind: payload.KindWebsite} },
	},
	{
		name:    "www",
		matches: func(s string) bool { return strings.HasPrefix(s, "www.") },
		build:   func(s string) Result { return Result{Payload: "https://" + s, Kind: payload.KindWebsite} },
	},
	{
		name:    "email",
		matches: emailPattern.MatchString,
		build:   func(s string) Result { return Result{Payload: "mailto:" + s, Kind: payload.KindEmail} },
	},
	{
		name: "phone",
		matches: func(s string) bool {
			return phonePattern.MatchString(s) && len(phoneSeps.ReplaceAllString(s, "")) >= 10
		},
		build: func(s string) Result {
			return Result{Payload: "tel:" + phoneSeps.ReplaceAllString(s, ""), Kind: payload.KindPhone}
		},
	},
	{
		name:    "social",
		matches: func(s string) bool { return strings.HasPrefix(s, "@") },
		build: func(s string) Result {
			return Result{Payload: "https://instagram.com/" + strings.TrimPrefix(s, "@"), Kind: payload.KindSocial}
		},
	},
}

// Classify trims raw and returns the payload of the first matching rule.
// Text is the fallback, so every input has a result.
func Classify(raw string) Result {
	s := strings.TrimSpace(raw)
	for _, r := range rules {
		if r.matches(s) {
			return r.build(s)
		}
	}
	return Result{Payload: s, Kind: payload.KindText}
}

// RuleNames lists the rule order, text fallback last.
func RuleNames() []string {
	names := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		names = append(names, r.name)
	}
	return append(names, string(payload.KindText))
}
