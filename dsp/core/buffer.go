package core

// EnsureLen returns buf resliced to n when its capacity allows, otherwise a
// new zeroed slice of length n. Reused storage keeps its old contents.
func EnsureLen(buf []float64, n int) []float64 {
	switch {
	case n <= 0:
		return buf[:0]
	case cap(buf) >= n:
		return buf[:n]
	default:
		return make([]float64, n)
	}
}

// Zero clears buf.
func Zero(buf []float64) {
	clear(buf)
}

// CopyInto copies as much of src as fits into dst and returns the count.
func CopyInto(dst, src []float64) int {
	return copy(dst, src)
}
