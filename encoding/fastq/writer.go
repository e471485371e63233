package fastq

import "io"

// Writer is a FASTQ file writer. Each read is assembled in an internal
// buffer and handed to the underlying writer in a single Write call.
type Writer struct {
	w   io.Writer
	buf []byte
	n   int64
	err error
}

// NewWriter constructs a new FASTQ writer
// that writes reads to the underlying writer w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes the read r in FASTQ format. An empty Unk is written
// as "+". Once a write fails, every later call returns the same error.
func (w *Writer) Write(r *Read) error {
	if w.err != nil {
		return w.err
	}
	unk := r.Unk
	if unk == "" {
		unk = "+"
	}
	b := w.buf[:0]
	for _, line := range [...]string{r.ID, r.Seq, unk, r.Qual} {
		b = append(b, line...)
		b = append(b, '\n')
	}
	w.buf = b
	var n int
	n, w.err = w.w.Write(b)
	w.n += int64(n)
	return w.err
}

// N returns the number of bytes written so far.
func (w *Writer) N() int64 { return w.n }
