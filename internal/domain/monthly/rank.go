package monthly

import "sort"

// DenseRank ranks values in descending order. Equal values share a rank and the
// next distinct value takes the following integer, so the ranks have no gaps.
func DenseRank(values []int) []int {
	ranks := make([]int, len(values))
	if len(values) == 0 {
		return ranks
	}

	distinct := make([]int, 0, len(values))
	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		distinct = append(distinct, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(distinct)))

	rankByValue := make(map[int]int, len(distinct))
	for i, v := range distinct {
		rankByValue[v] = i + 1
	}
	for i, v := range values {
		ranks[i] = rankByValue[v]
	}

	return ranks
}
