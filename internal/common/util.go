package common

// WipeByteArray zeroes b in place. Used for passwords and decrypted keys.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
