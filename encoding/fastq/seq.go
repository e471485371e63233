package fastq

var complement [256]byte

func init() {
	for i := range complement {
		complement[i] = byte(i)
	}
	for _, p := range []string{"AT", "CG", "at", "cg"} {
		complement[p[0]] = p[1]
		complement[p[1]] = p[0]
	}
}

// ReverseComplement returns the reverse complement of a DNA sequence.
// Bytes other than ACGT (in either case) are kept as is, so N stays N.
func ReverseComplement(seq string) string {
	n := len(seq)
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[n-1-i] = complement[seq[i]]
	}
	return string(b)
}

func reverse(s string) string {
	n := len(s)
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[n-1-i] = s[i]
	}
	return string(b)
}
