package fanout

import (
	"bufio"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/bgzf"
	"github.com/klauspost/compress/gzip"
)

// Format is the compression format of sink output files.
type Format int

const (
	// Gzip writes a single gzip member per file.
	Gzip Format = iota
	// BGZF writes blocked gzip. BGZF files are valid gzip files, can be
	// compressed with several goroutines, and are indexable.
	BGZF
)

// ParseFormat parses "gzip" or "bgzf".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "gzip", "gz":
		return Gzip, nil
	case "bgzf", "bgzip":
		return BGZF, nil
	}
	return Gzip, errors.E(errors.Invalid, fmt.Sprintf("unknown output format %q, want gzip or bgzf", s))
}

func (f Format) String() string {
	switch f {
	case Gzip:
		return "gzip"
	case BGZF:
		return "bgzf"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

const outputBufferSize = 1 << 20

// encoder compresses into a buffered file writer.
type encoder struct {
	z   io.WriteCloser
	buf *bufio.Writer
}

func newEncoder(w io.Writer, opts Opts) (*encoder, error) {
	e := &encoder{buf: bufio.NewWriterSize(w, outputBufferSize)}
	var err error
	switch opts.Format {
	case Gzip:
		e.z, err = gzip.NewWriterLevel(e.buf, opts.Level)
	case BGZF:
		e.z, err = bgzf.NewWriterLevel(e.buf, opts.Level, opts.Parallelism)
	default:
		err = fmt.Errorf("unknown output format %v", opts.Format)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (e *encoder) Write(p []byte) (int, error) { return e.z.Write(p) }

// Close flushes the compressor and the buffer. It does not close the
// underlying writer.
func (e *encoder) Close() error {
	err := e.z.Close()
	if e2 := e.buf.Flush(); err == nil {
		err = e2
	}
	return err
}
