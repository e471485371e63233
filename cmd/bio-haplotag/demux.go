package main

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/haplotag/barcode"
	"github.com/grailbio/haplotag/demux"
	"github.com/grailbio/haplotag/fanout"
	"v.io/x/lib/cmdline"
)

func newCmdDemux() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "demux",
		Short: "Decode haplotag barcodes and split reads by sample",
		Long: `
Demux reads the R1, R2, I1 and I2 FASTQ files of a haplotag library, decodes
the A, B, C and D barcodes of each read pair from the index reads, and writes
the pairs, tagged with BX, RX and QX fields in their names, to gzipped FASTQ
files in the output directory. With -demult-file, pairs are split by the
sample of their C code.`,
	}
	opts := demux.DefaultOpts
	var (
		barcodesFlag string
		formatFlag   string
	)
	cmd.Flags.StringVar(&opts.R1, "r1", "", "Read 1 FASTQ file (required)")
	cmd.Flags.StringVar(&opts.R2, "r2", "", "Read 2 FASTQ file (required)")
	cmd.Flags.StringVar(&opts.I1, "i1", "", "Index 1 FASTQ file, holding the C and A barcodes (required)")
	cmd.Flags.StringVar(&opts.I2, "i2", "", "Index 2 FASTQ file, holding the D and B barcodes (required)")
	cmd.Flags.StringVar(&barcodesFlag, "barcodes", strings.Join(opts.BarcodeFiles[:], ","),
		"Comma-separated (code, barcode) tables of classes A, B, C and D")
	cmd.Flags.StringVar(&opts.DemultFile, "demult-file", "", "Table of (C code, sample) pairs. If set, reads are split by sample")
	cmd.Flags.BoolVar(&opts.ExactMatchOnly, "exact-match-only", false, "Disable single-substitution barcode correction")
	cmd.Flags.BoolVar(&opts.CountBarcodes, "count-barcodes", false, "Write per-class barcode count reports")
	cmd.Flags.StringVar(&opts.OutputDir, "output-dir", opts.OutputDir, "Output directory")
	cmd.Flags.StringVar(&opts.OutputLabel, "output-label", "", "Label included in every output file name")
	cmd.Flags.IntVar(&opts.Layout.BarcodeLen, "barcode-length", opts.Layout.BarcodeLen, "Length of the C and D barcodes at the start of the index reads")
	cmd.Flags.BoolVar(&opts.ReverseComplementI2, "revcomp-i2", false, "Reverse complement I2 before decoding")
	cmd.Flags.IntVar(&opts.Output.QueueLength, "queue-length", opts.Output.QueueLength, "Number of reads buffered per output file")
	cmd.Flags.StringVar(&formatFlag, "format", opts.Output.Format.String(), "Output compression: gzip or bgzf")
	cmd.Flags.IntVar(&opts.Output.Level, "compression-level", opts.Output.Level, "Output compression level; -1 selects the default")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("demux takes no arguments, but got %v", argv)
		}
		var err error
		if opts.BarcodeFiles, err = parseBarcodeFiles(barcodesFlag); err != nil {
			return err
		}
		if opts.Output.Format, err = fanout.ParseFormat(formatFlag); err != nil {
			return err
		}
		stats, err := demux.Run(vcontext.Background(), opts)
		if err != nil {
			return err
		}
		log.Printf("Wrote %d output files to %s", len(stats.Outputs), opts.OutputDir)
		return nil
	})
	return cmd
}

func parseBarcodeFiles(s string) (paths [barcode.NumClasses]string, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != barcode.NumClasses {
		return paths, errors.E(errors.Invalid,
			fmt.Sprintf("-barcodes: expected %d comma-separated files, got %d: %q", barcode.NumClasses, len(parts), s))
	}
	for i, p := range parts {
		paths[i] = strings.TrimSpace(p)
	}
	return paths, nil
}
