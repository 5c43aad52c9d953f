package tuntap

// ifnameSize is the size of the fixed name field of struct ifreq (IFNAMSIZ).
const ifnameSize = 16

// copyIfname copies at most len(dst)-1 bytes of name into dst and zeroes the
// rest, so the field always stays NUL terminated. Longer names are truncated
// on purpose, the kernel reports the name it actually attached.
func copyIfname(dst []byte, name string) int {
	if len(dst) == 0 {
		return 0
	}
	n := copy(dst[:len(dst)-1], name)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return n
}

// ifnameString returns the NUL terminated name stored in b.
func ifnameString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
