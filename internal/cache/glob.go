package cache

// globMatch matches key against a glob pattern: `*` matches any substring
// (including empty), `?` matches any single byte, and the match is
// anchored over the full key. A classic two-pointer
// greedy-with-backtrack matcher, the same algorithm used for shell glob
// matching — no regexp compilation needed on a hot admin path.
func globMatch(pattern, s string) bool {
	var sx, px int
	var starIdx, match int
	hasStar := false

	for sx < len(s) {
		switch {
		case px < len(pattern) && (pattern[px] == '?' || pattern[px] == s[sx]):
			sx++
			px++
		case px < len(pattern) && pattern[px] == '*':
			starIdx = px
			match = sx
			hasStar = true
			px++
		case hasStar:
			px = starIdx + 1
			match++
			sx = match
		default:
			return false
		}
	}

	for px < len(pattern) && pattern[px] == '*' {
		px++
	}

	return px == len(pattern)
}
