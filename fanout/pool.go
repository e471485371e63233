package fanout

import (
	"context"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/klauspost/compress/gzip"
)

// Opts configures the sinks of a pool.
type Opts struct {
	// QueueLength is the capacity of each sink's queue, in reads.
	QueueLength int
	// Format is the compression format.
	Format Format
	// Level is the compression level, gzip.DefaultCompression (-1) or
	// 1 (fastest) to 9 (smallest).
	Level int
	// Parallelism is the number of compression goroutines per BGZF
	// sink. Ignored for Gzip.
	Parallelism int
}

// DefaultOpts is the default Opts value.
var DefaultOpts = Opts{
	QueueLength: 4096,
	Format:      Gzip,
	Level:       gzip.DefaultCompression,
	Parallelism: 1,
}

// Pool owns the sinks of one run.
type Pool struct {
	ctx    context.Context
	opts   Opts
	sinks  []*Sink
	byPath map[string]*Sink
	closed bool
}

// NewPool creates an empty pool. Ctx is used for file operations of
// every sink.
func NewPool(ctx context.Context, opts Opts) *Pool {
	if opts.QueueLength < 0 {
		opts.QueueLength = 0
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = runtime.NumCPU()
	}
	return &Pool{ctx: ctx, opts: opts, byPath: map[string]*Sink{}}
}

// Open creates the output file at path and starts its sink. Opening
// the same path twice returns the same sink.
func (p *Pool) Open(path string) (*Sink, error) {
	if p.closed {
		log.Panicf("fanout: open %s on a closed pool", path)
	}
	if s, ok := p.byPath[path]; ok {
		return s, nil
	}
	s, err := newSink(p.ctx, path, p.opts)
	if err != nil {
		return nil, err
	}
	p.sinks = append(p.sinks, s)
	p.byPath[path] = s
	return s, nil
}

// Sinks returns the sinks of the pool in the order they were opened.
func (p *Pool) Sinks() []*Sink { return p.sinks }

// Close sends one end marker to every sink, then waits for every sink
// to drain its queue and close its file. It returns the first error
// encountered by any sink. Close must be called exactly once, after
// the last Enqueue.
func (p *Pool) Close() error {
	if p.closed {
		log.Panicf("fanout: pool closed twice")
	}
	p.closed = true
	for _, s := range p.sinks {
		s.end()
	}
	var once errors.Once
	for _, s := range p.sinks {
		once.Set(s.wait())
	}
	return once.Err()
}

// Stats returns the stats of every sink, in the order they were
// opened. It must be called after Close.
func (p *Pool) Stats() []Stats {
	if !p.closed {
		log.Panicf("fanout: stats requested before close")
	}
	stats := make([]Stats, len(p.sinks))
	for i, s := range p.sinks {
		stats[i] = s.Stats()
	}
	return stats
}
