package verif

// GoldenMultiply computes C[m][n] = sum_k A[m][k]*B[k][n] over the full dense
// matrices. It shares no state or arithmetic path with the tiled datapath and
// is deliberately timing-free; int64 keeps the reduction exact for every
// problem the capacity checks admit.
func GoldenMultiply(a, b [][]int64) [][]int64 {
	m := len(a)
	k := len(b)
	n := 0
	if k > 0 {
		n = len(b[0])
	}

	c := make([][]int64, m)
	for i := 0; i < m; i++ {
		c[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			var sum int64
			for kk := 0; kk < k; kk++ {
				sum += a[i][kk] * b[kk][j]
			}
			c[i][j] = sum
		}
	}
	return c
}

// ExpectedC is the golden product reduced to the accelerator's output width.
// The documented bit-width truncation is the only transformation applied.
func ExpectedC(a, b [][]int64, outWidth int) [][]int64 {
	c := GoldenMultiply(a, b)
	for i := range c {
		for j := range c[i] {
			c[i][j] = wrapToWidth(c[i][j], outWidth)
		}
	}
	return c
}

func wrapToWidth(value int64, width int) int64 {
	shift := 64 - width
	return int64(uint64(value)<<shift) >> shift
}
