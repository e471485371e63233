package barcode

import (
	"github.com/grailbio/base/log"
)

var alphabet = []byte{'A', 'C', 'G', 'T'}

// CorrectionIndex implements single-substitution barcode correction.
// A sequence is correctable to barcode B if it differs from B at
// exactly one position and from every other known barcode at more
// than one position. Known barcodes correct to themselves.
//
// Corrections are never guessed: a variant of B that is itself a known
// barcode stays that barcode, and a variant shared by two known
// barcodes is not corrected at all.
type CorrectionIndex struct {
	class Class
	// table maps every correctable sequence to its known barcode.
	table *Lookup
	// Number of variants dropped because they equal a known barcode.
	collisions int
	// Number of variants dropped because they are one substitution
	// away from two or more known barcodes.
	ambiguous int
}

// NewCorrectionIndex builds the correction index for the given known
// barcodes of class, usually Registry.Barcodes().
func NewCorrectionIndex(class Class, barcodes []string) *CorrectionIndex {
	log.Debug.Printf("class %v: building correction index for %d barcodes", class, len(barcodes))
	known := make(map[string]bool, len(barcodes))
	for _, bc := range barcodes {
		known[bc] = true
	}
	size := len(barcodes)
	if size > 0 {
		// Each barcode plus three substitutions at every position.
		size *= 1 + (len(alphabet)-1)*len(barcodes[0])
	}
	idx := &CorrectionIndex{
		class: class,
		table: newLookup(MissMirror, "", size),
	}
	for _, bc := range barcodes {
		idx.table.set(bc, bc)
	}
	ambiguous := map[string]bool{}
	for _, bc := range barcodes {
		variant := []byte(bc)
		for i := range variant {
			orig := variant[i]
			for _, base := range alphabet {
				if base == orig {
					continue
				}
				variant[i] = base
				alt := string(variant)
				if known[alt] {
					log.Error.Printf("class %v: ignoring alternative barcode %s for %s because it matches an existing barcode",
						class, alt, bc)
					idx.collisions++
					continue
				}
				if prev, ok := idx.table.Find(alt); ok {
					log.Error.Printf("class %v: ignoring alternative barcode %s because it matches both %s and %s",
						class, alt, bc, prev)
					ambiguous[alt] = true
					continue
				}
				idx.table.set(alt, bc)
			}
			variant[i] = orig
		}
	}
	// A variant is only known to be ambiguous once the second barcode
	// reaching it has been visited, so removal waits for the full scan.
	for alt := range ambiguous {
		idx.table.delete(alt)
	}
	idx.ambiguous = len(ambiguous)
	log.Printf("class %v: correction index has %d entries for %d barcodes (%d ambiguous variants, %d collisions)",
		class, idx.table.Len(), len(barcodes), idx.ambiguous, idx.collisions)
	return idx
}

// Correct returns the known barcode that s corrects to, or s itself if
// s is not correctable.
func (c *CorrectionIndex) Correct(s string) string {
	return c.table.Get(s)
}

// Class returns the class of the index.
func (c *CorrectionIndex) Class() Class { return c.class }

// Len returns the number of correctable sequences, including the known
// barcodes themselves.
func (c *CorrectionIndex) Len() int { return c.table.Len() }

// Ambiguous returns the number of variants excluded because they are
// one substitution away from several known barcodes.
func (c *CorrectionIndex) Ambiguous() int { return c.ambiguous }

// Collisions returns the number of variants excluded because they are
// known barcodes themselves.
func (c *CorrectionIndex) Collisions() int { return c.collisions }
