package fastq

import (
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Stream identifies one of the four FASTQ streams of a sequencing run
// with paired index reads.
type Stream int

const (
	// R1 is the first read of the pair.
	R1 Stream = iota
	// R2 is the second read of the pair.
	R2
	// I1 is the first index read.
	I1
	// I2 is the second index read.
	I2

	// NumStreams is the number of streams scanned by a QuadScanner.
	NumStreams = 4
)

var streamNames = [NumStreams]string{"R1", "R2", "I1", "I2"}

func (s Stream) String() string { return streamNames[s] }

// QuadScannerOpts configures a QuadScanner.
type QuadScannerOpts struct {
	// ReverseComplement[s] causes reads of stream s to be reverse
	// complemented as they are decoded.
	ReverseComplement [NumStreams]bool
}

// QuadScanner scans the R1, R2, I1 and I2 streams of a run in
// lock-step, one record from each per call to Scan.
//
// The four streams must hold the same number of records. If one
// stream ends while others still have records, Scan returns false and
// Err returns an error wrapping ErrDiscordant; the remaining records
// are not read.
type QuadScanner struct {
	s    [NumStreams]*Scanner
	opts QuadScannerOpts
	n    int64
	done bool
	err  error
}

// NewQuadScanner creates a scanner over the four given streams.
func NewQuadScanner(r1, r2, i1, i2 io.Reader, opts QuadScannerOpts) *QuadScanner {
	return &QuadScanner{
		s:    [NumStreams]*Scanner{NewScanner(r1), NewScanner(r2), NewScanner(i1), NewScanner(i2)},
		opts: opts,
	}
}

// Scan reads the next record of every stream. It returns false at the
// end of the input or on error; the caller should then check Err.
func (q *QuadScanner) Scan(r1, r2, i1, i2 *Read) bool {
	if q.done {
		return false
	}
	reads := [NumStreams]*Read{r1, r2, i1, i2}
	var (
		ok  [NumStreams]bool
		nOK int
	)
	for i, s := range q.s {
		if ok[i] = s.Scan(reads[i]); ok[i] {
			nOK++
		}
	}
	if nOK == NumStreams {
		for i, r := range reads {
			if q.opts.ReverseComplement[i] {
				r.ReverseComplement()
			}
		}
		q.n++
		return true
	}
	q.done = true
	for i, s := range q.s {
		if err := s.Err(); err != nil {
			q.err = errors.Wrapf(err, "%v: record %d", Stream(i), q.n+1)
			return false
		}
	}
	if nOK > 0 {
		var ended, live []string
		for i := range q.s {
			if ok[i] {
				live = append(live, Stream(i).String())
			} else {
				ended = append(ended, Stream(i).String())
			}
		}
		q.err = errors.Wrapf(ErrDiscordant, "%s ended after %d records, but %s did not",
			strings.Join(ended, ","), q.n, strings.Join(live, ","))
	}
	return false
}

// N returns the number of complete record quadruples scanned so far.
func (q *QuadScanner) N() int64 { return q.n }

// Err returns the scanning error, if any. It should be checked after
// Scan returns false.
func (q *QuadScanner) Err() error { return q.err }
