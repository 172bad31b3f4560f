package logengine

// FindMatches applies every pattern to every line. Hits are ordered by line first and
// pattern declaration order second; a line may hit several patterns and nothing is deduplicated.
// FindMatches 将每个模式应用于每一行。结果先按行、再按模式声明顺序排列；
// 一行可以命中多个模式，且不做去重。
func FindMatches(lines []string, set *PatternSet) []Hit {
	var hits []Hit
	patterns := set.Patterns()
	if len(patterns) == 0 {
		return hits
	}
	for _, line := range lines {
		for _, p := range patterns {
			if p.Matches(line) {
				hits = append(hits, Hit{Pattern: p, Line: line})
			}
		}
	}
	return hits
}
