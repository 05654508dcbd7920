package util

import "math/rand"

// RandIntRange returns a random int in [min, max].
func RandIntRange(r *rand.Rand, min int, max int) int {
	if max <= min {
		return min
	}
	return min + r.Intn(max-min+1)
}

// RandString returns a lowercase ASCII string with length in [minLen, maxLen].
func RandString(r *rand.Rand, minLen int, maxLen int) string {
	n := RandIntRange(r, minLen, maxLen)
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte('a' + r.Intn(26))
	}
	return string(buf)
}
