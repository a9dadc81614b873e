// Package search provides single-line substring search for the editor engine.
//
// Two interchangeable algorithms are offered:
//
//   - Naive: compares the pattern at every starting offset, O(n*m).
//   - Linear: failure-function (prefix table) matching, O(n+m).
//
// Both report every occurrence, including overlapping ones, as ascending
// byte offsets into the text:
//
//	search.FindLinear("aaaa", "aa") // [0 1 2]
//	search.FindNaive("aaaa", "aa")  // [0 1 2]
//
// An empty pattern never matches. Search never crosses a line boundary;
// callers search each line independently.
//
// When the same pattern is searched in many lines, build a Matcher once so
// the prefix table is computed a single time:
//
//	m := search.NewMatcher("needle", search.Linear)
//	for i, line := range lines {
//	    for _, col := range m.FindAll(line) {
//	        // match at (i, col)
//	    }
//	}
package search
