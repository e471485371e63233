package fanout

import (
	"context"
	"hash"
	"io"
	"sync/atomic"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/haplotag/encoding/fastq"
)

// Stats describes what a sink wrote. It is complete once the sink's
// pool has been closed.
type Stats struct {
	Path string
	// Records is the number of reads written.
	Records int64
	// Bytes is the size of the uncompressed FASTQ data.
	Bytes int64
	// Checksum is the seahash of the uncompressed FASTQ data.
	Checksum uint64
}

// Sink writes the reads enqueued to it to one compressed FASTQ file.
// Enqueue must be called from one goroutine at a time.
type Sink struct {
	path     string
	ch       chan *fastq.Read
	done     chan struct{}
	enqueued int64
	written  int64 // updated atomically by the sink goroutine
	err      errors.Once
	stats    Stats // owned by the sink goroutine until done is closed
}

func newSink(ctx context.Context, path string, opts Opts) (*Sink, error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	enc, err := newEncoder(out.Writer(ctx), opts)
	if err != nil {
		if e := out.Close(ctx); e != nil {
			log.Error.Printf("%s: close: %v", path, e)
		}
		return nil, errors.E(err, "create", path)
	}
	return startSink(path, opts.QueueLength, enc, func() error { return out.Close(ctx) }), nil
}

// startSink starts the goroutine of a sink that writes to enc and
// calls closeOut once enc has been closed.
func startSink(path string, queueLength int, enc *encoder, closeOut func() error) *Sink {
	s := &Sink{
		path:  path,
		ch:    make(chan *fastq.Read, queueLength),
		done:  make(chan struct{}),
		stats: Stats{Path: path},
	}
	go s.run(enc, closeOut)
	return s
}

// Path returns the path of the output file.
func (s *Sink) Path() string { return s.path }

// Enqueue queues r for writing. The sink takes ownership of r; the
// caller must not modify it afterwards. Enqueue blocks only while the
// queue is full.
func (s *Sink) Enqueue(r *fastq.Read) {
	s.enqueued++
	s.ch <- r
}

// Enqueued returns the number of reads enqueued so far. It must be
// called from the enqueuing goroutine.
func (s *Sink) Enqueued() int64 { return s.enqueued }

// Written returns the number of reads written so far. It may be called
// from any goroutine.
func (s *Sink) Written() int64 { return atomic.LoadInt64(&s.written) }

// Stats returns what the sink wrote. It must be called after the
// pool has been closed.
func (s *Sink) Stats() Stats {
	select {
	case <-s.done:
	default:
		log.Panicf("fanout: %s: stats requested before close", s.path)
	}
	return s.stats
}

// end puts the end marker on the queue.
func (s *Sink) end() { close(s.ch) }

// wait blocks until the sink goroutine has closed the file, and
// returns the first error it encountered.
func (s *Sink) wait() error {
	<-s.done
	return s.err.Err()
}

func (s *Sink) run(enc *encoder, closeOut func() error) {
	defer close(s.done)
	var (
		h      hash.Hash64 = seahash.New()
		w                  = fastq.NewWriter(io.MultiWriter(enc, h))
		failed bool
	)
	for r := range s.ch {
		if failed {
			// Keep draining so that the producer never blocks on a
			// dead sink. The error is reported by Pool.Close.
			continue
		}
		if err := w.Write(r); err != nil {
			log.Error.Printf("%s: write: %v", s.path, err)
			s.err.Set(errors.E(err, "write", s.path))
			failed = true
			continue
		}
		atomic.AddInt64(&s.written, 1)
	}
	if err := enc.Close(); err != nil {
		s.err.Set(errors.E(err, "flush", s.path))
	}
	if err := closeOut(); err != nil {
		s.err.Set(errors.E(err, "close", s.path))
	}
	s.stats.Records = atomic.LoadInt64(&s.written)
	s.stats.Bytes = w.N()
	s.stats.Checksum = h.Sum64()
	log.Debug.Printf("%s: wrote %d reads, %d bytes, checksum %016x", s.path, s.stats.Records, s.stats.Bytes, s.stats.Checksum)
}
