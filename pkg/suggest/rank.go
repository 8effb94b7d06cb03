package suggest

import "sort"

// rank orders scored candidates: score descending, then completed sentence
// ascending in codepoint order. The sort is stable, so candidates equal on
// both keys keep their original (id) order, making repeated queries against
// the same engine byte-identical. Returns at most k results.
func rank(results []Result, k int) []Result {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Sentence < results[j].Sentence
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}
