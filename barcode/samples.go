package barcode

import (
	"context"
	"io"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
)

// SampleMap assigns class-C codes to sample names. Several codes may
// belong to the same sample.
type SampleMap struct {
	samples *Lookup
	names   []string // distinct sample names, sorted
}

// LoadSampleMap reads a demultiplex file from path. See ParseSampleMap
// for the format.
func LoadSampleMap(ctx context.Context, path string) (m *SampleMap, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open demultiplex file")
	}
	defer file.CloseAndReport(ctx, in, &err)
	return ParseSampleMap(in.Reader(ctx), path)
}

// ParseSampleMap reads whitespace-separated (code, sample) pairs, one
// per line. If a code is listed twice, the last line wins.
func ParseSampleMap(r io.Reader, name string) (*SampleMap, error) {
	m := &SampleMap{samples: newLookup(MissDefault, "", 0)}
	err := scanPairs(r, name, func(line int, code, sample string) error {
		if prev, ok := m.samples.Find(code); ok && prev != sample {
			log.Error.Printf("%s:%d: code %s is assigned to both %s and %s, using %s", name, line, code, prev, sample, sample)
		}
		m.samples.set(code, sample)
		return nil
	})
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, s := range m.samples.m {
		if !seen[s] {
			seen[s] = true
			m.names = append(m.names, s)
		}
	}
	sort.Strings(m.names)
	return m, nil
}

// Sample returns the sample that code belongs to.
func (m *SampleMap) Sample(code string) (string, bool) {
	return m.samples.Find(code)
}

// Samples returns the distinct sample names in sorted order. The
// caller must not modify the result.
func (m *SampleMap) Samples() []string { return m.names }

// Unmapped returns the codes of reg, in table order and without
// duplicates, that are not assigned to any sample. Reads carrying them
// cannot be demultiplexed.
func (m *SampleMap) Unmapped(reg *Registry) []string {
	var (
		codes []string
		seen  = map[string]bool{}
	)
	for _, bc := range reg.Barcodes() {
		code := reg.Code(bc)
		if seen[code] {
			continue
		}
		seen[code] = true
		if _, ok := m.samples.Find(code); !ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// WriteSampleMap joins a class-C barcode table of (code, barcode) pairs
// with a sample table of (barcode, sample) pairs, and writes the
// resulting (code, sample) demultiplex table to w, in the order of the
// class-C table. Codes whose barcode has no sample are skipped. It
// returns the number of lines written.
func WriteSampleMap(codeTable, sampleTable io.Reader, w io.Writer) (int, error) {
	var (
		codes     []string
		barcodeOf = map[string]string{}
	)
	err := scanPairs(codeTable, "barcode table", func(_ int, code, bc string) error {
		if _, ok := barcodeOf[code]; !ok {
			codes = append(codes, code)
		}
		barcodeOf[code] = bc
		return nil
	})
	if err != nil {
		return 0, err
	}
	sampleOf := map[string]string{}
	err = scanPairs(sampleTable, "sample table", func(_ int, bc, sample string) error {
		sampleOf[bc] = sample
		return nil
	})
	if err != nil {
		return 0, err
	}
	out := tsv.NewWriter(w)
	n := 0
	for _, code := range codes {
		sample, ok := sampleOf[barcodeOf[code]]
		if !ok {
			continue
		}
		out.WriteString(code)
		out.WriteString(sample)
		if err := out.EndLine(); err != nil {
			return n, err
		}
		n++
	}
	return n, out.Flush()
}
