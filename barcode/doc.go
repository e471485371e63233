// Package barcode holds the lookup tables used to decode haplotag
// molecular barcodes.
//
// A haplotag barcode is the combination of four short barcodes, one
// per Class (A, B, C and D), read from the two index reads of a read
// pair. Each class has a Registry mapping exact barcode sequences to
// short codes such as "A01", and optionally a CorrectionIndex mapping
// every sequence one substitution away from a registered barcode back
// to it. A SampleMap assigns class-C codes to samples.
//
// All tables are read-only once built and may be shared between
// goroutines.
package barcode
