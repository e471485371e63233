package demux

import (
	"context"
	"io"
	"sort"
	"strconv"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/haplotag/barcode"
)

// CountRow is one line of a barcode count report.
type CountRow struct {
	Barcode string
	Count   int64
}

// Counter counts how often each barcode was seen, per class. It is not
// thread safe; Run owns it.
type Counter struct {
	tables [barcode.NumClasses]countTable
}

type countTable struct {
	index map[string]int // barcode -> index in rows
	rows  []CountRow     // in first-seen order
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	c := &Counter{}
	for i := range c.tables {
		c.tables[i].index = map[string]int{}
	}
	return c
}

// Observe counts one read pair with the given per-class barcodes.
func (c *Counter) Observe(barcodes [barcode.NumClasses]string) {
	for cls, bc := range barcodes {
		t := &c.tables[cls]
		i, ok := t.index[bc]
		if !ok {
			i = len(t.rows)
			t.index[bc] = i
			t.rows = append(t.rows, CountRow{Barcode: bc})
		}
		t.rows[i].Count++
	}
}

// Rows returns the barcodes of class cls by decreasing count. Barcodes
// with equal counts are listed in the order they were first seen.
func (c *Counter) Rows(cls barcode.Class) []CountRow {
	rows := append([]CountRow(nil), c.tables[cls].rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	return rows
}

// Totals returns the number of read pairs whose class-cls barcode did
// and did not resolve to a code of reg.
func (c *Counter) Totals(reg *barcode.Registry) (matches, mismatches int64) {
	for _, row := range c.tables[reg.Class()].rows {
		if reg.Code(row.Barcode) == reg.Missing() {
			mismatches += row.Count
		} else {
			matches += row.Count
		}
	}
	return
}

// WriteReport writes the report of class reg.Class() to w as
// tab-separated (barcode, code, [sample], count) lines. The sample
// column is present iff samples is non-nil, and is "-" for codes
// without a sample.
func (c *Counter) WriteReport(w io.Writer, reg *barcode.Registry, samples *barcode.SampleMap) error {
	out := tsv.NewWriter(w)
	for _, row := range c.Rows(reg.Class()) {
		code := reg.Code(row.Barcode)
		out.WriteString(row.Barcode)
		out.WriteString(code)
		if samples != nil {
			sample, ok := samples.Sample(code)
			if !ok {
				sample = "-"
			}
			out.WriteString(sample)
		}
		out.WriteString(strconv.FormatInt(row.Count, 10))
		if err := out.EndLine(); err != nil {
			return err
		}
	}
	return out.Flush()
}

// CountsPath returns the path of the count report of class cls.
func CountsPath(dir, label string, cls barcode.Class) string {
	name := cls.String() + ".counts.txt"
	if label != "" {
		name = label + "." + name
	}
	return file.Join(dir, name)
}

// Write writes the count report of every class to dir and logs the
// per-class match totals.
func (c *Counter) Write(ctx context.Context, dir, label string, registries [barcode.NumClasses]*barcode.Registry, samples *barcode.SampleMap) error {
	for _, reg := range registries {
		if err := c.writeClass(ctx, CountsPath(dir, label, reg.Class()), reg, samples); err != nil {
			return err
		}
		matches, mismatches := c.Totals(reg)
		log.Printf("Barcode %v: matches=%d mismatches=%d distinct=%d",
			reg.Class(), matches, mismatches, len(c.tables[reg.Class()].rows))
	}
	return nil
}

func (c *Counter) writeClass(ctx context.Context, path string, reg *barcode.Registry, samples *barcode.SampleMap) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer file.CloseAndReport(ctx, out, &err)
	if err = c.WriteReport(out.Writer(ctx), reg, samples); err != nil {
		return errors.E(err, "write", path)
	}
	return nil
}
