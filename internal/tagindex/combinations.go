package tagindex

// DefaultMaxDepth caps the number of index levels generated.
const DefaultMaxDepth = 4

// Depth returns how many index levels are generated for ntags tags.
func Depth(ntags, maxDepth int) int {
	return min(maxDepth, ntags)
}

// Combinations returns every combination of tags with 0 to Depth-1 members,
// smallest first. Members keep the order of tags.
func Combinations(tags []string, maxDepth int) [][]string {
	depth := Depth(len(tags), maxDepth)
	var out [][]string
	for size := 0; size < depth; size++ {
		out = append(out, combinationsOf(tags, size)...)
	}
	return out
}

// CombinationCount is the number of combinations Combinations yields.
func CombinationCount(ntags, maxDepth int) int {
	total := 0
	for size := 0; size < Depth(ntags, maxDepth); size++ {
		total += binomial(ntags, size)
	}
	return total
}

func combinationsOf(tags []string, size int) [][]string {
	if size > len(tags) {
		return nil
	}
	idx := make([]int, size)
	for i := range idx {
		idx[i] = i
	}

	var out [][]string
	for {
		combo := make([]string, size)
		for i, j := range idx {
			combo[i] = tags[j]
		}
		out = append(out, combo)

		// Advance the rightmost index that can still move.
		i := size - 1
		for i >= 0 && idx[i] == len(tags)-size+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < size; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}
