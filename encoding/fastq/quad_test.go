package fastq_test

import (
	"strings"
	"testing"

	"github.com/grailbio/haplotag/encoding/fastq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(prefix string, seqs ...string) string {
	var b strings.Builder
	for i, s := range seqs {
		b.WriteString("@" + prefix + string(rune('a'+i)) + "\n" + s + "\n+\n" + strings.Repeat("F", len(s)) + "\n")
	}
	return b.String()
}

func TestQuadScanner(t *testing.T) {
	q := fastq.NewQuadScanner(
		strings.NewReader(records("r1", "AAAA", "CCCC")),
		strings.NewReader(records("r2", "GGGG", "TTTT")),
		strings.NewReader(records("i1", "ACGTTGA", "TTTTTTT")),
		strings.NewReader(records("i2", "AACCGGT", "GGGGGGG")),
		fastq.QuadScannerOpts{})
	var r1, r2, i1, i2 fastq.Read
	require.True(t, q.Scan(&r1, &r2, &i1, &i2))
	assert.Equal(t, "@r1a", r1.ID)
	assert.Equal(t, "GGGG", r2.Seq)
	assert.Equal(t, "ACGTTGA", i1.Seq)
	assert.Equal(t, "AACCGGT", i2.Seq)
	require.True(t, q.Scan(&r1, &r2, &i1, &i2))
	assert.Equal(t, "@i2b", i2.ID)
	assert.False(t, q.Scan(&r1, &r2, &i1, &i2))
	assert.NoError(t, q.Err())
	assert.Equal(t, int64(2), q.N())
}

func TestQuadScannerReverseComplement(t *testing.T) {
	i2 := "@i2\nAACCGGTN\n+\nABCDEFGH\n"
	q := fastq.NewQuadScanner(
		strings.NewReader(records("r1", "AAAA")),
		strings.NewReader(records("r2", "AAAA")),
		strings.NewReader(records("i1", "AAAA")),
		strings.NewReader(i2),
		fastq.QuadScannerOpts{ReverseComplement: [fastq.NumStreams]bool{fastq.I2: true}})
	var r [fastq.NumStreams]fastq.Read
	require.True(t, q.Scan(&r[0], &r[1], &r[2], &r[3]))
	assert.Equal(t, "NACCGGTT", r[fastq.I2].Seq)
	assert.Equal(t, "HGFEDCBA", r[fastq.I2].Qual)
	assert.Equal(t, "AAAA", r[fastq.I1].Seq)
}

func TestQuadScannerDiscordant(t *testing.T) {
	q := fastq.NewQuadScanner(
		strings.NewReader(records("r1", "AAAA", "CCCC")),
		strings.NewReader(records("r2", "AAAA", "CCCC")),
		strings.NewReader(records("i1", "AAAA")),
		strings.NewReader(records("i2", "AAAA", "CCCC")),
		fastq.QuadScannerOpts{})
	var r1, r2, i1, i2 fastq.Read
	require.True(t, q.Scan(&r1, &r2, &i1, &i2))
	assert.False(t, q.Scan(&r1, &r2, &i1, &i2))
	err := q.Err()
	require.Error(t, err)
	assert.Equal(t, fastq.ErrDiscordant, errors.Cause(err))
	assert.Contains(t, err.Error(), "I1 ended after 1 records")
	// The scanner stays stopped.
	assert.False(t, q.Scan(&r1, &r2, &i1, &i2))
}

func TestQuadScannerTrailingBlankLines(t *testing.T) {
	in := "@x\nAAAA\n+\nFFFF\n\n"
	q := fastq.NewQuadScanner(
		strings.NewReader(in), strings.NewReader(in),
		strings.NewReader(in), strings.NewReader(in),
		fastq.QuadScannerOpts{})
	var r1, r2, i1, i2 fastq.Read
	require.True(t, q.Scan(&r1, &r2, &i1, &i2))
	assert.False(t, q.Scan(&r1, &r2, &i1, &i2))
	assert.NoError(t, q.Err())
	assert.Equal(t, int64(1), q.N())
}

func TestQuadScannerBlankLineDiscordant(t *testing.T) {
	q := fastq.NewQuadScanner(
		strings.NewReader(records("r1", "AAAA", "CCCC")),
		strings.NewReader(records("r2", "AAAA", "CCCC")),
		strings.NewReader(records("i1", "AAAA")+"\n"+records("i1", "CCCC")),
		strings.NewReader(records("i2", "AAAA", "CCCC")),
		fastq.QuadScannerOpts{})
	var r1, r2, i1, i2 fastq.Read
	require.True(t, q.Scan(&r1, &r2, &i1, &i2))
	assert.False(t, q.Scan(&r1, &r2, &i1, &i2))
	assert.Equal(t, fastq.ErrDiscordant, errors.Cause(q.Err()))
	assert.Contains(t, q.Err().Error(), "I1 ended after 1 records")
}

func TestQuadScannerTruncated(t *testing.T) {
	q := fastq.NewQuadScanner(
		strings.NewReader(records("r1", "AAAA")),
		strings.NewReader("@r2\nAAAA\n"),
		strings.NewReader(records("i1", "AAAA")),
		strings.NewReader(records("i2", "AAAA")),
		fastq.QuadScannerOpts{})
	var r1, r2, i1, i2 fastq.Read
	assert.False(t, q.Scan(&r1, &r2, &i1, &i2))
	assert.Equal(t, fastq.ErrShort, errors.Cause(q.Err()))
	assert.Contains(t, q.Err().Error(), "R2: record 1")
}

func TestReverseComplement(t *testing.T) {
	for _, test := range []struct{ in, want string }{
		{"", ""},
		{"A", "T"},
		{"ACGT", "ACGT"},
		{"AACCGN", "NCGGTT"},
		{"acgtt", "aacgt"},
	} {
		assert.Equal(t, test.want, fastq.ReverseComplement(test.in), "input %q", test.in)
	}
}
