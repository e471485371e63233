package demux

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/haplotag/barcode"
	"github.com/grailbio/haplotag/fanout"
)

// Opts defines the inputs and outputs of Run.
type Opts struct {
	// R1, R2, I1 and I2 are the paths of the read and index FASTQ files.
	// Compressed files are recognized by their extension.
	R1, R2, I1, I2 string
	// BarcodeFiles are the (code, barcode) tables of classes A, B, C
	// and D, in that order.
	BarcodeFiles [barcode.NumClasses]string
	// DemultFile, if set, is a table of (C code, sample) pairs. Reads
	// are then split by sample.
	DemultFile string
	// ExactMatchOnly disables single-substitution barcode correction.
	ExactMatchOnly bool
	// CountBarcodes enables the per-class barcode count reports.
	CountBarcodes bool
	// OutputDir is the directory of all output files.
	OutputDir string
	// OutputLabel is included in the name of every output file.
	OutputLabel string
	// Layout describes the position of the barcodes in the index reads.
	Layout Layout
	// ReverseComplementI2 reverse complements the I2 reads before
	// decoding, for instruments that sequence I2 on the other strand.
	ReverseComplementI2 bool
	// Output configures the output files.
	Output fanout.Opts
}

// DefaultOpts is the default Opts value. The input paths must be set
// by the caller.
var DefaultOpts = Opts{
	BarcodeFiles: [barcode.NumClasses]string{"BC_A.txt", "BC_B.txt", "BC_C.txt", "BC_D.txt"},
	OutputDir:    ".",
	Layout:       DefaultLayout,
	Output:       fanout.DefaultOpts,
}

func validate(opts *Opts) error {
	for _, in := range []struct{ name, path string }{
		{"r1", opts.R1}, {"r2", opts.R2}, {"i1", opts.I1}, {"i2", opts.I2},
	} {
		if in.path == "" {
			return errors.E(errors.Invalid, fmt.Sprintf("no %s input file", in.name))
		}
	}
	for i, path := range opts.BarcodeFiles {
		if path == "" {
			return errors.E(errors.Invalid, fmt.Sprintf("no barcode file for class %v", barcode.Classes[i]))
		}
	}
	if opts.OutputDir == "" {
		return errors.E(errors.Invalid, "empty output directory")
	}
	if opts.Layout.BarcodeLen <= 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("barcode length must be positive, got %d", opts.Layout.BarcodeLen))
	}
	if opts.Layout.LinkerLen < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("linker length must be non-negative, got %d", opts.Layout.LinkerLen))
	}
	return nil
}
