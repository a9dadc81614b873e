package search

// FindLinear returns the offsets of every occurrence of pattern in text
// in O(len(text)+len(pattern)) time.
func FindLinear(text, pattern string) []int {
	if len(pattern) == 0 || len(pattern) > len(text) {
		return nil
	}
	return scan(text, pattern, prefixTable(pattern))
}

// prefixTable computes, for every prefix pattern[:i+1], the length of its
// longest proper prefix that is also a suffix.
func prefixTable(pattern string) []int {
	m := len(pattern)
	lps := make([]int, m)

	i, j := 1, 0
	for i < m {
		if pattern[i] == pattern[j] {
			j++
			lps[i] = j
			i++
			continue
		}
		if j != 0 {
			j = lps[j-1]
		} else {
			i++
		}
	}
	return lps
}

// scan walks text once. After a full match it falls back through the
// table instead of resetting, so overlapping occurrences are reported.
func scan(text, pattern string, lps []int) []int {
	n, m := len(text), len(pattern)
	if m == 0 || m > n {
		return nil
	}

	var res []int
	i, j := 0, 0
	for i < n {
		if text[i] == pattern[j] {
			i++
			j++
		}
		if j == m {
			res = append(res, i-j)
			j = lps[j-1]
		} else if i < n && text[i] != pattern[j] {
			if j != 0 {
				j = lps[j-1]
			} else {
				i++
			}
		}
	}
	return res
}
