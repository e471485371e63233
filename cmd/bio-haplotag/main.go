// bio-haplotag decodes haplotag barcodes in paired-end FASTQ files.
//
// Usage:
//
//   bio-haplotag demux -r1 R1.fastq.gz -r2 R2.fastq.gz -i1 I1.fastq.gz -i2 I2.fastq.gz \
//     [-barcodes BC_A.txt,BC_B.txt,BC_C.txt,BC_D.txt] [-demult-file samples.tsv] ...
//
//   bio-haplotag make-demult-file -c BC_C.txt -s samples.txt [-o out.tsv]
package main

import (
	"os"

	"github.com/grailbio/base/grail"
	"v.io/x/lib/cmdline"
)

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-haplotag",
		Short:    "Tools for haplotag linked-read FASTQ files",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdDemux(),
			newCmdMakeDemultFile(),
		},
	}
}

func main() {
	cleanup := grail.Init()
	cmdline.HideGlobalFlagsExcept()
	env := cmdline.EnvFromOS()
	err := cmdline.ParseAndRun(newCmdRoot(), env, os.Args[1:])
	cleanup()
	os.Exit(cmdline.ExitCode(err, env.Stderr))
}
