package search

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm indicates an algorithm name could not be parsed.
var ErrUnknownAlgorithm = errors.New("unknown search algorithm")

// Algorithm selects the substring search strategy.
type Algorithm uint8

const (
	// Linear uses the failure-function algorithm. This is the default.
	Linear Algorithm = iota
	// Naive compares the pattern at every offset. Kept as a reference.
	Naive
)

// String returns the configuration name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case Linear:
		return "linear"
	case Naive:
		return "naive"
	default:
		return fmt.Sprintf("algorithm(%d)", uint8(a))
	}
}

// ParseAlgorithm parses a configuration name into an Algorithm.
// "kmp" is accepted as an alias for linear.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear", "kmp":
		return Linear, nil
	case "naive":
		return Naive, nil
	default:
		return Linear, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
}

// Find returns the offsets of every occurrence of pattern in text using
// the given algorithm.
func Find(text, pattern string, alg Algorithm) []int {
	if alg == Naive {
		return FindNaive(text, pattern)
	}
	return FindLinear(text, pattern)
}

// Matcher searches many texts for one pattern.
// The prefix table for the linear algorithm is built once, at creation.
type Matcher struct {
	pattern string
	alg     Algorithm
	lps     []int
}

// NewMatcher creates a matcher for pattern using the given algorithm.
func NewMatcher(pattern string, alg Algorithm) *Matcher {
	m := &Matcher{pattern: pattern, alg: alg}
	if alg != Naive && len(pattern) > 0 {
		m.lps = prefixTable(pattern)
	}
	return m
}

// Pattern returns the pattern being searched for.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Algorithm returns the algorithm in use.
func (m *Matcher) Algorithm() Algorithm {
	return m.alg
}

// FindAll returns the offsets of every occurrence of the pattern in text.
func (m *Matcher) FindAll(text string) []int {
	if len(m.pattern) == 0 {
		return nil
	}
	if m.alg == Naive {
		return FindNaive(text, m.pattern)
	}
	return scan(text, m.pattern, m.lps)
}

// Count returns the number of occurrences of the pattern in text.
func (m *Matcher) Count(text string) int {
	return len(m.FindAll(text))
}
