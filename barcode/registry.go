package barcode

import (
	"context"
	"fmt"
	"io"

	"github.com/antzucaro/matchr"
	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// Conflict records a barcode listed under more than one code. Such a
// barcode is dropped from its registry.
type Conflict struct {
	Barcode string
	// Codes lists every code the barcode appeared with, in file order.
	Codes []string
}

// Registry maps the barcodes of one class to their codes. A barcode
// that is not registered maps to the class's missing code.
//
// Registry does not pick a winner when the source table lists the same
// barcode under two codes: the barcode is removed, and any later line
// for it is ignored as well.
type Registry struct {
	class      Class
	codes      *Lookup
	barcodes   []string // registered barcodes, in file order
	barcodeLen int
	conflicts  []Conflict
}

// LoadRegistry reads the barcode table for the given class from path.
// See ParseRegistry for the format.
func LoadRegistry(ctx context.Context, path string, class Class) (reg *Registry, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, fmt.Sprintf("open barcode table for class %v", class))
	}
	defer file.CloseAndReport(ctx, in, &err)
	return ParseRegistry(in.Reader(ctx), path, class)
}

// ParseRegistry reads a table of whitespace-separated (code, barcode)
// pairs, one per line. All barcodes must have the same length and
// consist of A, C, G and T only. Name is used in error messages.
func ParseRegistry(r io.Reader, name string, class Class) (*Registry, error) {
	var (
		codes      = map[string]string{}
		order      []string
		conflicted = map[string]int{} // barcode -> index in conflicts
		conflicts  []Conflict
		barcodeLen = -1
	)
	err := scanPairs(r, name, func(line int, code, bc string) error {
		if !validBarcode(bc) {
			return errors.E(errors.Invalid, fmt.Sprintf("%s:%d: invalid barcode %q", name, line, bc))
		}
		if barcodeLen < 0 {
			barcodeLen = len(bc)
		}
		if len(bc) != barcodeLen {
			return errors.E(errors.Invalid, fmt.Sprintf("%s:%d: barcode %s has length %d, other barcodes have length %d",
				name, line, bc, len(bc), barcodeLen))
		}
		if i, ok := conflicted[bc]; ok {
			conflicts[i].Codes = append(conflicts[i].Codes, code)
			return nil
		}
		prev, ok := codes[bc]
		switch {
		case !ok:
			codes[bc] = code
			order = append(order, bc)
		case prev != code:
			log.Error.Printf("class %v: barcode %s is linked with both %s and %s, dropping it", class, bc, prev, code)
			delete(codes, bc)
			conflicted[bc] = len(conflicts)
			conflicts = append(conflicts, Conflict{Barcode: bc, Codes: []string{prev, code}})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if barcodeLen < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("%s: no barcodes", name))
	}
	reg := &Registry{
		class:      class,
		codes:      newLookup(MissDefault, class.MissingCode(), len(codes)),
		barcodeLen: barcodeLen,
		conflicts:  conflicts,
	}
	for _, bc := range order {
		if code, ok := codes[bc]; ok {
			reg.codes.set(bc, code)
			reg.barcodes = append(reg.barcodes, bc)
		}
	}
	return reg, nil
}

// Class returns the class of the registry.
func (r *Registry) Class() Class { return r.class }

// Code returns the code of barcode bc, or the missing code.
func (r *Registry) Code(bc string) string { return r.codes.Get(bc) }

// Missing returns the code returned for unregistered barcodes.
func (r *Registry) Missing() string { return r.codes.def }

// Barcodes returns the registered barcodes in table order. The caller
// must not modify the result.
func (r *Registry) Barcodes() []string { return r.barcodes }

// Len returns the number of registered barcodes.
func (r *Registry) Len() int { return len(r.barcodes) }

// BarcodeLen returns the length shared by all barcodes of the table.
func (r *Registry) BarcodeLen() int { return r.barcodeLen }

// Conflicts returns the barcodes dropped because they had more than
// one code.
func (r *Registry) Conflicts() []Conflict { return r.conflicts }

// Fingerprint returns a hash of the registered (barcode, code) pairs.
// Two registries with the same contents in the same order have the
// same fingerprint.
func (r *Registry) Fingerprint() uint64 {
	var buf []byte
	for _, bc := range r.barcodes {
		buf = append(buf, bc...)
		buf = append(buf, '\t')
		buf = append(buf, r.codes.m[bc]...)
		buf = append(buf, '\n')
	}
	return farm.Fingerprint64(buf)
}

// MinDistance returns the smallest Hamming distance between two
// registered barcodes, or -1 if fewer than two are registered.
// Single-substitution correction is only unambiguous for barcodes at
// distance 3 or more.
func (r *Registry) MinDistance() int {
	min := -1
	for i := 0; i < len(r.barcodes); i++ {
		for j := i + 1; j < len(r.barcodes); j++ {
			d, err := matchr.Hamming(r.barcodes[i], r.barcodes[j])
			if err != nil {
				// Unreachable: all barcodes have the same length.
				log.Panicf("hamming %s %s: %v", r.barcodes[i], r.barcodes[j], err)
			}
			if min < 0 || d < min {
				min = d
			}
		}
	}
	return min
}
