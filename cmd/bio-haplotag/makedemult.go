package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/haplotag/barcode"
	"v.io/x/lib/cmdline"
)

func newCmdMakeDemultFile() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "make-demult-file",
		Short: "Build a demultiplex file from a C barcode table and a sample sheet",
		Long: `
Make-demult-file joins a class C table of (code, barcode) pairs with a table
of (barcode, sample) pairs and writes the (code, sample) table read by
"demux -demult-file".`,
	}
	var codePath, samplePath, outPath string
	cmd.Flags.StringVar(&codePath, "c", "BC_C.txt", "Class C (code, barcode) table")
	cmd.Flags.StringVar(&samplePath, "s", "", "(barcode, sample) table (required)")
	cmd.Flags.StringVar(&outPath, "o", "", "Output file. If empty, write to stdout")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 0 {
			return fmt.Errorf("make-demult-file takes no arguments, but got %v", argv)
		}
		if samplePath == "" {
			return errors.E(errors.Invalid, "-s is required")
		}
		ctx := vcontext.Background()
		if outPath == "" {
			_, err := makeDemultFile(ctx, codePath, samplePath, os.Stdout)
			return err
		}
		return writeDemultFile(ctx, codePath, samplePath, outPath)
	})
	return cmd
}

func writeDemultFile(ctx context.Context, codePath, samplePath, outPath string) (err error) {
	out, err := file.Create(ctx, outPath)
	if err != nil {
		return errors.E(err, "create", outPath)
	}
	defer file.CloseAndReport(ctx, out, &err)
	n, err := makeDemultFile(ctx, codePath, samplePath, out.Writer(ctx))
	if err == nil {
		log.Printf("%s: wrote %d samples", outPath, n)
	}
	return err
}

func makeDemultFile(ctx context.Context, codePath, samplePath string, w io.Writer) (n int, err error) {
	codes, err := file.Open(ctx, codePath)
	if err != nil {
		return 0, errors.E(err, "open", codePath)
	}
	defer file.CloseAndReport(ctx, codes, &err)
	samples, err := file.Open(ctx, samplePath)
	if err != nil {
		return 0, errors.E(err, "open", samplePath)
	}
	defer file.CloseAndReport(ctx, samples, &err)
	return barcode.WriteSampleMap(codes.Reader(ctx), samples.Reader(ctx), w)
}
