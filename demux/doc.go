/*Package demux decodes haplotag barcodes from index reads and splits
  paired-end FASTQ files by sample and assignment status.

  A haplotag library is read as four FASTQ streams: R1 and R2 carry the
  insert, I1 and I2 carry the barcodes. Each index read packs two
  barcodes around a linker base:

    I1 = C barcode + linker + A barcode
    I2 = D barcode + linker + B barcode

  For every read pair, Run

    1. optionally corrects each barcode by one substitution
       (barcode.CorrectionIndex),
    2. looks up the code of each barcode (barcode.Registry) and forms
       the composite tag A+C+B+D, e.g. "A01C23B45D67",
    3. appends the tag, the index sequences and their qualities to the
       read names (BX, RX and QX fields),
    4. routes the pair to the R1/R2 output files of one destination:

         with a demultiplex file:
           <sample>.<label>.R{1,2}.fastq.gz             all four codes known
           <sample>.unassigned.<label>.R{1,2}.fastq.gz  C code known, others not
           unassigned.<label>.R{1,2}.fastq.gz           C code not in the file
         without:
           <label>.R{1,2}.fastq.gz                      all four codes known
           unassigned.<label>.R{1,2}.fastq.gz           otherwise

  Output files are written concurrently, one goroutine per file (see
  package fanout). With Opts.CountBarcodes, Run also writes, for each
  class, the observed barcodes sorted by count to
  <label>.<class>.counts.txt.
*/
package demux
