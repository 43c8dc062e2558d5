package util

// ArrayReverse returns a new slice with the same bytes as b but in reverse
// order. b is not modified.
func ArrayReverse(b []byte) []byte {
	dup := make([]byte, len(b))
	for i, j := 0, len(b)-1; j >= 0; i, j = i+1, j-1 {
		dup[i] = b[j]
	}
	return dup
}
