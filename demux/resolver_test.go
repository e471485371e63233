package demux_test

import (
	"strings"
	"testing"

	"github.com/grailbio/haplotag/barcode"
	"github.com/grailbio/haplotag/demux"
	"github.com/grailbio/haplotag/encoding/fastq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTables = [barcode.NumClasses]string{
	"A01 AAAAAA\nA02 CCCCCC\n",
	"B01 GGGGGG\nB02 TTTTTT\n",
	"C01 AAAAAA\nC02 TTTTTT\n",
	"D01 ACGTAC\nD02 CATGCA\n",
}

func testRegistries(t *testing.T) [barcode.NumClasses]*barcode.Registry {
	var regs [barcode.NumClasses]*barcode.Registry
	for i, table := range testTables {
		reg, err := barcode.ParseRegistry(strings.NewReader(table), "test", barcode.Classes[i])
		require.NoError(t, err)
		regs[i] = reg
	}
	return regs
}

func testResolver(t *testing.T, correct bool) *demux.Resolver {
	regs := testRegistries(t)
	if !correct {
		return demux.NewResolver(demux.DefaultLayout, regs, nil)
	}
	var idx [barcode.NumClasses]*barcode.CorrectionIndex
	for i, reg := range regs {
		idx[i] = barcode.NewCorrectionIndex(reg.Class(), reg.Barcodes())
	}
	return demux.NewResolver(demux.DefaultLayout, regs, &idx)
}

func indexRead(seq string) *fastq.Read {
	return &fastq.Read{ID: "@idx", Seq: seq, Unk: "+", Qual: strings.Repeat("I", len(seq))}
}

func TestResolveCorrected(t *testing.T) {
	var (
		res    = testResolver(t, true)
		i1     = indexRead("AAAAAGTCCCCCC")
		i2     = indexRead("ACGTACTGGGGGG")
		r1, r2 = &fastq.Read{ID: "@read1"}, &fastq.Read{ID: "@read1"}
	)
	got := res.Resolve(i1, i2, r1, r2)
	assert.Equal(t, [barcode.NumClasses]string{"CCCCCC", "GGGGGG", "AAAAAA", "ACGTAC"}, got.Barcodes)
	assert.Equal(t, [barcode.NumClasses]string{"A02", "B01", "C01", "D01"}, got.Codes)
	assert.Equal(t, "A02C01B01D01", got.Tag)
	assert.True(t, got.Assigned)
	assert.Equal(t, "AAAAAATCCCCCC", i1.Seq)

	want := "@read1_A02C01B01D01_AAAAAATCCCCCC_CCCCCCAGTACGT" +
		"\tBX:Z:A02C01B01D01" +
		"\tRX:Z:AAAAAATCCCCCC+ACGTACTGGGGGG" +
		"\tQX:Z:IIIIIIIIIIIII+IIIIIIIIIIIII"
	assert.Equal(t, want, r1.ID)
	assert.Equal(t, want, r2.ID)
}

func TestResolveExact(t *testing.T) {
	var (
		res    = testResolver(t, false)
		i1     = indexRead("AAAAAGTCCCCCC")
		i2     = indexRead("ACGTACTGGGGGG")
		r1, r2 = &fastq.Read{ID: "@r"}, &fastq.Read{ID: "@r"}
	)
	got := res.Resolve(i1, i2, r1, r2)
	assert.Equal(t, "A02C00B01D01", got.Tag)
	assert.False(t, got.Assigned)
	assert.Equal(t, "AAAAAGTCCCCCC", i1.Seq)
	assert.True(t, strings.HasPrefix(r1.ID, "@r_A02C00B01D01_AAAAAGTCCCCCC_"))
}

func TestResolveUncorrectable(t *testing.T) {
	res := testResolver(t, true)
	// GGGTTT is three substitutions away from both B barcodes.
	got := res.Resolve(indexRead("TTTTTTACCCCCC"), indexRead("CATGCAAGGGTTT"), &fastq.Read{}, &fastq.Read{})
	assert.Equal(t, "A02C02B00D02", got.Tag)
	assert.False(t, got.Assigned)
}

func TestResolveShortIndex(t *testing.T) {
	res := testResolver(t, true)
	i1 := indexRead("AAA")
	got := res.Resolve(i1, indexRead(""), &fastq.Read{}, &fastq.Read{})
	assert.Equal(t, "A00C00B00D00", got.Tag)
	assert.False(t, got.Assigned)
	assert.Equal(t, "AAA", i1.Seq)
}
