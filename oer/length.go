package oer

// appendLength appends the canonical OER length determinant for n octets of
// content (X.696 clause 9.3). Lengths below 128 are a single octet carrying
// the value itself; larger lengths use a leading octet whose top bit is set
// and whose low seven bits give the count of big-endian length octets that
// follow, each of them minimally encoded.
func appendLength(buf []byte, n int) []byte {
	if n < 128 {
		return append(buf, byte(n))
	}
	var octets []byte
	for v := n; v > 0; v >>= 8 {
		octets = append([]byte{byte(v)}, octets...)
	}
	buf = append(buf, 0x80|byte(len(octets)))
	return append(buf, octets...)
}

// readLength parses a length determinant from the front of data, returning
// the decoded length and the number of octets consumed.
func readLength(data []byte) (length, consumed int, err error) {
	if len(data) == 0 {
		return 0, 0, errContent("truncated length determinant")
	}
	b := data[0]
	if b&0x80 == 0 {
		return int(b), 1, nil
	}
	n := int(b & 0x7f)
	if n == 0 || len(data) < 1+n {
		return 0, 0, errContent("truncated length determinant")
	}
	l := 0
	for i := 0; i < n; i++ {
		l = l<<8 | int(data[1+i])
	}
	return l, 1 + n, nil
}
