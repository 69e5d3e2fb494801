// Package allergen holds the text rules shared by every allergen lookup: how free
// text is normalized and tokenized, how ingredient synonyms are matched, how allergen
// sets are merged and how a detected allergen set is compared with a user's profile.
//
// Everything in here is pure. Database access lives in the repository and service
// packages.
package allergen

import (
	"sort"
	"strings"
)

// Normalize trims surrounding whitespace and lowercases s.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SplitTokens splits free text on commas and newlines. Every token is normalized and
// empty tokens are dropped. Input order is preserved.
func SplitTokens(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := Normalize(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// SplitList splits a comma-separated list, normalizing entries and dropping empties.
func SplitList(list string) []string {
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := Normalize(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SynonymMatch reports whether the normalized query occurs anywhere in the synonym
// string. The synonym string is lowercased but not tokenized, so a query may match
// part of one alias or run across the comma between two aliases.
func SynonymMatch(synonyms, query string) bool {
	if query == "" || synonyms == "" {
		return false
	}
	return strings.Contains(strings.ToLower(synonyms), query)
}

// Mentions reports whether normalized free text mentions an ingredient, either by its
// name or by one of its comma-separated aliases.
func Mentions(text, name, synonyms string) bool {
	if text == "" {
		return false
	}
	if n := Normalize(name); n != "" && strings.Contains(text, n) {
		return true
	}
	for _, alias := range SplitList(synonyms) {
		if strings.Contains(text, alias) {
			return true
		}
	}
	return false
}

// Merge unions allergen name lists. Names keep the case they were stored with;
// duplicates are dropped and the result is sorted ascending.
func Merge(lists ...[]string) []string {
	seen := make(map[string]struct{})
	merged := make([]string, 0)
	for _, list := range lists {
		for _, name := range list {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			merged = append(merged, name)
		}
	}
	sort.Strings(merged)
	return merged
}

// Dedupe normalizes terms and removes empties and repeats, keeping first-seen order.
func Dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		n := Normalize(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Profile builds a user's effective allergen list from structured tags and the
// free-text custom allergy field.
func Profile(structured []string, customAllergies string) []string {
	terms := make([]string, 0, len(structured))
	terms = append(terms, structured...)
	terms = append(terms, SplitList(customAllergies)...)
	return Dedupe(terms)
}

// MatchesAllergy returns the user allergen terms matched by any detected allergen.
// A user term u matches a detected allergen d when either contains the other, after
// lowercasing both. Empty terms never match.
func MatchesAllergy(detected, user []string) []string {
	lowered := make([]string, 0, len(detected))
	for _, d := range detected {
		if d = Normalize(d); d != "" {
			lowered = append(lowered, d)
		}
	}

	matched := make([]string, 0)
	for _, u := range user {
		u = Normalize(u)
		if u == "" {
			continue
		}
		for _, d := range lowered {
			if strings.Contains(d, u) || strings.Contains(u, d) {
				matched = append(matched, u)
				break
			}
		}
	}
	return matched
}

// IsSafe reports whether a match result means the food is safe for the user.
func IsSafe(matched []string) bool {
	return len(matched) == 0
}
