package common

// WipeByteArray zeroes the slice in place. Used to scrub passwords once the
// request that needed them is done.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
