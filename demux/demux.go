package demux

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/haplotag/barcode"
	"github.com/grailbio/haplotag/encoding/fastq"
	"github.com/grailbio/haplotag/fanout"
)

// Stats summarizes a Run.
type Stats struct {
	// Pairs is the number of read pairs read.
	Pairs int64
	// Assigned is the number of pairs with all four codes known.
	Assigned int64
	// Matches[c] is the number of pairs whose class-c barcode resolved
	// to a code; Mismatches[c] the number that did not.
	Matches, Mismatches [barcode.NumClasses]int64
	// Destinations is the number of pairs routed to each destination.
	Destinations map[Destination]int64
	// Outputs describes every output file.
	Outputs []fanout.Stats
}

const progressInterval = 1 << 20

// Run demultiplexes the input files described by opts. See the package
// documentation for the outputs. Configuration errors are reported
// before any output file is created.
func Run(ctx context.Context, opts Opts) (stats Stats, err error) {
	if err = validate(&opts); err != nil {
		return
	}
	registries, err := loadRegistries(ctx, opts)
	if err != nil {
		return
	}
	var indexes *[barcode.NumClasses]*barcode.CorrectionIndex
	if !opts.ExactMatchOnly {
		indexes = new([barcode.NumClasses]*barcode.CorrectionIndex)
		for i, reg := range registries {
			indexes[i] = barcode.NewCorrectionIndex(reg.Class(), reg.Barcodes())
		}
	}
	var samples *barcode.SampleMap
	if opts.DemultFile != "" {
		if samples, err = barcode.LoadSampleMap(ctx, opts.DemultFile); err != nil {
			return
		}
		for _, code := range samples.Unmapped(registries[barcode.C]) {
			log.Error.Printf("code %s is not in the demultiplex file, so its reads will be sent to the unassigned output", code)
		}
		log.Printf("Demultiplexing %d samples", len(samples.Samples()))
	}

	in, err := openInputs(ctx, opts)
	if err != nil {
		return
	}
	defer func() {
		if e := in.close(ctx); e != nil && err == nil {
			err = e
		}
	}()

	var (
		resolver = NewResolver(opts.Layout, registries, indexes)
		router   = NewRouter(samples)
		pool     = fanout.NewPool(ctx, opts.Output)
		counter  *Counter
	)
	outs, err := openOutputs(pool, opts.OutputDir, opts.OutputLabel, router.Destinations())
	if err != nil {
		if e := pool.Close(); e != nil {
			log.Error.Printf("close outputs: %v", e)
		}
		return
	}
	if opts.CountBarcodes {
		counter = NewCounter()
	}
	stats.Destinations = map[Destination]int64{}

	var (
		sc     = fastq.NewQuadScanner(in.r[fastq.R1], in.r[fastq.R2], in.r[fastq.I1], in.r[fastq.I2], in.scanOpts)
		i1, i2 fastq.Read
	)
	for {
		// R1 and R2 are handed over to the sinks, so they are allocated
		// per pair. The index reads are not and can be reused.
		r1, r2 := new(fastq.Read), new(fastq.Read)
		if !sc.Scan(r1, r2, &i1, &i2) {
			break
		}
		res := resolver.Resolve(&i1, &i2, r1, r2)
		if counter != nil {
			counter.Observe(res.Barcodes)
		}
		dest := router.Route(&res)
		outs.enqueue(dest, r1, r2)

		stats.Pairs++
		stats.Destinations[dest]++
		if res.Assigned {
			stats.Assigned++
		}
		for cls, reg := range registries {
			if res.Codes[cls] == reg.Missing() {
				stats.Mismatches[cls]++
			} else {
				stats.Matches[cls]++
			}
		}
		if stats.Pairs%progressInterval == 0 {
			log.Printf("%s: %dMi read pairs, %d assigned", opts.R1, stats.Pairs/progressInterval, stats.Assigned)
		}
	}
	scanErr := sc.Err()
	closeErr := pool.Close()
	if scanErr != nil {
		err = errors.E(scanErr, "read input")
		return
	}
	if closeErr != nil {
		err = errors.E(closeErr, "write output")
		return
	}
	stats.Outputs = pool.Stats()
	var written int64
	for _, o := range stats.Outputs {
		written += o.Records
	}
	if written != 2*stats.Pairs {
		err = errors.E(errors.Integrity, fmt.Sprintf("read %d pairs, but wrote %d reads", stats.Pairs, written))
		return
	}
	log.Printf("Processed %d read pairs, %d fully assigned", stats.Pairs, stats.Assigned)
	for _, dest := range router.Destinations() {
		log.Printf("%v: %d read pairs", dest, stats.Destinations[dest])
	}
	for _, cls := range barcode.Classes {
		log.Printf("Barcode %v: matches=%d mismatches=%d", cls, stats.Matches[cls], stats.Mismatches[cls])
	}
	if counter != nil {
		err = counter.Write(ctx, opts.OutputDir, opts.OutputLabel, registries, samples)
	}
	return
}

func loadRegistries(ctx context.Context, opts Opts) ([barcode.NumClasses]*barcode.Registry, error) {
	var registries [barcode.NumClasses]*barcode.Registry
	err := traverse.Each(barcode.NumClasses, func(i int) error {
		reg, err := barcode.LoadRegistry(ctx, opts.BarcodeFiles[i], barcode.Classes[i])
		registries[i] = reg
		return err
	})
	if err != nil {
		return registries, err
	}
	for _, reg := range registries {
		log.Printf("class %v: %d barcodes from %s, %d conflicts, fingerprint %016x",
			reg.Class(), reg.Len(), opts.BarcodeFiles[reg.Class()], len(reg.Conflicts()), reg.Fingerprint())
		if d := reg.MinDistance(); !opts.ExactMatchOnly && d >= 0 && d < 3 {
			log.Error.Printf("class %v: barcodes are only %d substitutions apart; some corrections will be ambiguous", reg.Class(), d)
		}
	}
	for _, cls := range []barcode.Class{barcode.C, barcode.D} {
		if n := registries[cls].BarcodeLen(); n != opts.Layout.BarcodeLen {
			log.Error.Printf("class %v: barcodes have length %d, but the index layout expects %d", cls, n, opts.Layout.BarcodeLen)
		}
	}
	return registries, nil
}

// inputs holds the four open input files.
type inputs struct {
	files    [fastq.NumStreams]file.File
	closers  []io.Closer
	r        [fastq.NumStreams]io.Reader
	scanOpts fastq.QuadScannerOpts
}

func openInputs(ctx context.Context, opts Opts) (*inputs, error) {
	in := &inputs{}
	in.scanOpts.ReverseComplement[fastq.I2] = opts.ReverseComplementI2
	for i, path := range [fastq.NumStreams]string{opts.R1, opts.R2, opts.I1, opts.I2} {
		f, err := file.Open(ctx, path)
		if err != nil {
			if e := in.close(ctx); e != nil {
				log.Error.Printf("close inputs: %v", e)
			}
			return nil, errors.E(err, fmt.Sprintf("open %v input", fastq.Stream(i)))
		}
		in.files[i] = f
		var r io.Reader = f.Reader(ctx)
		if u := compress.NewReaderPath(r, f.Name()); u != nil {
			in.closers = append(in.closers, u)
			r = u
		}
		in.r[i] = r
	}
	return in, nil
}

func (in *inputs) close(ctx context.Context) error {
	var once errors.Once
	for _, c := range in.closers {
		once.Set(c.Close())
	}
	for _, f := range in.files {
		if f != nil {
			once.Set(f.Close(ctx))
		}
	}
	return once.Err()
}
