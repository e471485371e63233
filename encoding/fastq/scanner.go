package fastq

import (
	"bufio"
	"errors"
	"io"
)

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when an invalid FASTQ file is encountered.
	ErrInvalid = errors.New("invalid FASTQ file")
	// ErrDiscordant is returned when the FASTQ streams scanned in lock-step
	// hold different numbers of records.
	ErrDiscordant = errors.New("discordant FASTQ streams")
)

// A Read is a FASTQ read, comprising an ID, sequence, line 3
// ("unknown"), and a quality string. ID holds the whole name line,
// including the leading '@'.
type Read struct {
	ID, Seq, Unk, Qual string
}

// ReverseComplement replaces the sequence of r with its reverse
// complement and reverses the quality string, so that each quality
// value stays attached to its base.
func (r *Read) ReverseComplement() {
	r.Seq = ReverseComplement(r.Seq)
	r.Qual = reverse(r.Qual)
}

var errEOF = errors.New("eof")

// Scanner provides a convenient interface for reading FASTQ read
// data. The Scan method returns the next read, returning a boolean
// indicating whether the read succeeded. Scanners are not
// threadsafe.
//
// Scanner requires ID lines to begin with "@" and line 3 to begin
// with "+", but does not check that seq and qual have equal lengths.
// An empty ID line is treated as the end of the stream; anything
// after it is not read.
type Scanner struct {
	b   *bufio.Scanner
	err error
}

// maxLineLen bounds the length of a single FASTQ line. Long-read
// platforms produce lines well beyond bufio's 64KiB default.
const maxLineLen = 16 << 20

// NewScanner constructs a new Scanner that reads raw FASTQ data from the
// provided reader.
func NewScanner(r io.Reader) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(make([]byte, 0, 64<<10), maxLineLen)
	return &Scanner{b: b}
}

// Scan the next read into the provided read. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again. Upon completion, the user should check
// the Err method to determine whether scanning stopped because of an
// error or because the end of the stream was reached.
func (f *Scanner) Scan(read *Read) bool {
	if f.err != nil {
		return false
	}
	if !f.b.Scan() {
		if f.err = f.b.Err(); f.err == nil {
			f.err = errEOF
		}
		return false
	}
	id := f.b.Bytes()
	if len(id) == 0 {
		// An empty name line ends the stream, so trailing blank lines
		// are not errors.
		f.err = errEOF
		return false
	}
	if id[0] != '@' {
		f.err = ErrInvalid
		return false
	}
	read.ID = string(id)
	if !f.scan() {
		return false
	}
	read.Seq = f.b.Text()
	if !f.scan() {
		return false
	}
	unk := f.b.Bytes()
	if len(unk) == 0 || unk[0] != '+' {
		f.err = ErrInvalid
		return false
	}
	read.Unk = string(unk)
	if !f.scan() {
		return false
	}
	read.Qual = f.b.Text()
	return true
}

func (f *Scanner) scan() bool {
	ok := f.b.Scan()
	if !ok {
		if f.err = f.b.Err(); f.err == nil {
			f.err = ErrShort
		}
	}
	return ok
}

// Err returns the scanning error, if any.
func (f *Scanner) Err() error {
	if f.err == errEOF {
		return nil
	}
	return f.err
}
