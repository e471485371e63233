package demux

import (
	"strings"

	"github.com/grailbio/haplotag/barcode"
	"github.com/grailbio/haplotag/encoding/fastq"
)

// Layout describes how two barcodes are packed into an index read:
// BarcodeLen bases of the leading barcode, LinkerLen linker bases, and
// the trailing barcode in the rest of the read.
type Layout struct {
	BarcodeLen int
	LinkerLen  int
}

// DefaultLayout is the standard haplotag layout of 13-base index
// reads: two 6-base barcodes around one linker base.
var DefaultLayout = Layout{BarcodeLen: 6, LinkerLen: 1}

// split cuts an index sequence into its leading barcode, linker and
// trailing barcode. Short sequences yield short or empty parts.
func (l Layout) split(seq string) (lead, linker, trail string) {
	a, b := l.BarcodeLen, l.BarcodeLen+l.LinkerLen
	if a > len(seq) {
		a = len(seq)
	}
	if b > len(seq) {
		b = len(seq)
	}
	return seq[:a], seq[a:b], seq[b:]
}

// Resolution is the decoded barcode of one read pair.
type Resolution struct {
	// Barcodes are the barcode sequences of each class, after
	// correction if enabled.
	Barcodes [barcode.NumClasses]string
	// Codes are the registry codes of Barcodes.
	Codes [barcode.NumClasses]string
	// Tag is the composite tag: the codes of classes A, C, B and D.
	Tag string
	// Assigned is true if no class resolved to its missing code.
	Assigned bool
}

// Resolver decodes the barcodes of read pairs. It is not modified by
// Resolve and may be shared.
type Resolver struct {
	layout     Layout
	registries [barcode.NumClasses]*barcode.Registry
	indexes    [barcode.NumClasses]*barcode.CorrectionIndex
	correct    bool
}

// NewResolver creates a resolver. If indexes is nil, barcodes must
// match a registry exactly; otherwise it must hold one index per class.
func NewResolver(layout Layout, registries [barcode.NumClasses]*barcode.Registry, indexes *[barcode.NumClasses]*barcode.CorrectionIndex) *Resolver {
	r := &Resolver{layout: layout, registries: registries}
	if indexes != nil {
		r.indexes = *indexes
		r.correct = true
	}
	return r
}

// Resolve decodes the barcodes in the index reads i1 and i2 and tags
// the names of r1 and r2. With correction enabled, the sequences of i1
// and i2 are rebuilt from the corrected barcodes first, so the tags
// carry the corrected index sequences.
func (r *Resolver) Resolve(i1, i2, r1, r2 *fastq.Read) Resolution {
	var res Resolution
	c, link1, a := r.layout.split(i1.Seq)
	d, link2, b := r.layout.split(i2.Seq)
	res.Barcodes[barcode.A] = a
	res.Barcodes[barcode.B] = b
	res.Barcodes[barcode.C] = c
	res.Barcodes[barcode.D] = d
	if r.correct {
		for cls, idx := range r.indexes {
			res.Barcodes[cls] = idx.Correct(res.Barcodes[cls])
		}
		i1.Seq = res.Barcodes[barcode.C] + link1 + res.Barcodes[barcode.A]
		i2.Seq = res.Barcodes[barcode.D] + link2 + res.Barcodes[barcode.B]
	}
	res.Assigned = true
	for cls, reg := range r.registries {
		res.Codes[cls] = reg.Code(res.Barcodes[cls])
		if res.Codes[cls] == reg.Missing() {
			res.Assigned = false
		}
	}
	res.Tag = res.Codes[barcode.A] + res.Codes[barcode.C] + res.Codes[barcode.B] + res.Codes[barcode.D]
	suffix := nameSuffix(res.Tag, i1, i2)
	r1.ID += suffix
	r2.ID += suffix
	return res
}

// nameSuffix builds the text appended to read names:
//
//   _<tag>_<I1>_<revcomp I2>\tBX:Z:<tag>\tRX:Z:<I1>+<I2>\tQX:Z:<I1 qual>+<I2 qual>
func nameSuffix(tag string, i1, i2 *fastq.Read) string {
	rc2 := fastq.ReverseComplement(i2.Seq)
	var b strings.Builder
	b.Grow(3*len(tag) + 3*len(i1.Seq) + 3*len(i2.Seq) + 24)
	b.WriteByte('_')
	b.WriteString(tag)
	b.WriteByte('_')
	b.WriteString(i1.Seq)
	b.WriteByte('_')
	b.WriteString(rc2)
	b.WriteString("\tBX:Z:")
	b.WriteString(tag)
	b.WriteString("\tRX:Z:")
	b.WriteString(i1.Seq)
	b.WriteByte('+')
	b.WriteString(i2.Seq)
	b.WriteString("\tQX:Z:")
	b.WriteString(i1.Qual)
	b.WriteByte('+')
	b.WriteString(i2.Qual)
	return b.String()
}
