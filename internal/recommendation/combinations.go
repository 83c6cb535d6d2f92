package recommendation

// Binomial returns C(n, k), zero when k is out of range
func Binomial(n, k int) int {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}

// BaseComplementCount is the number of tickets of a reduced-field formula with
// k bases and m complements: one base plays with each complement, several
// bases play together once and each with every complement.
func BaseComplementCount(k, m int) int {
	switch {
	case k <= 0 || m < 0:
		return 0
	case k == 1:
		return m
	default:
		return Binomial(k, k) + k*m
	}
}

// PairsInBlock is the number of unordered pairs in a block of n runners
func PairsInBlock(n int) int {
	return Binomial(n, 2)
}
