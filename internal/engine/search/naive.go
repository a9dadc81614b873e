package search

// FindNaive returns the offsets of every occurrence of pattern in text,
// checking the pattern at each offset in turn.
func FindNaive(text, pattern string) []int {
	m := len(pattern)
	n := len(text)
	if m == 0 || m > n {
		return nil
	}

	var res []int
	for i := 0; i <= n-m; i++ {
		j := 0
		for j < m && text[i+j] == pattern[j] {
			j++
		}
		if j == m {
			res = append(res, i)
		}
	}
	return res
}
