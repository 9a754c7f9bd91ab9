package walk

// LabelBounds returns the floor and ceiling of n/LabelCount: every label of a
// hidden graph with n rooms occurs between lo and hi times.
func LabelBounds(n int) (lo, hi int) {
	lo = n / LabelCount
	hi = (n + LabelCount - 1) / LabelCount

	return lo, hi
}

// CountsBalanced reports whether counts describes a legal label distribution
// for n rooms: each count in {lo, hi}, the counts sum to n, and exactly
// n mod LabelCount labels sit at the ceiling.
func CountsBalanced(counts [LabelCount]int, n int) bool {
	lo, hi := LabelBounds(n)
	var sum, atHi int
	for _, c := range counts {
		if c < lo || c > hi {
			return false
		}
		if c == hi && hi != lo {
			atHi++
		}
		sum += c
	}

	return sum == n && (hi == lo || atHi == n%LabelCount)
}

// CountsFeasible reports whether the labels already locked can still be part
// of a balanced distribution for n rooms, given that the remaining free labels
// will each take between lo and hi rooms.
func CountsFeasible(counts [LabelCount]int, locked [LabelCount]bool, n int) bool {
	lo, hi := LabelBounds(n)
	var used, free int
	for l, c := range counts {
		if !locked[l] {
			free++
			continue
		}
		if c < lo || c > hi {
			return false
		}
		used += c
	}

	return used+free*hi >= n && used+free*lo <= n
}
