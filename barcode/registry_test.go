package barcode_test

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/haplotag/barcode"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, class barcode.Class, table string) *barcode.Registry {
	reg, err := barcode.ParseRegistry(strings.NewReader(table), "test", class)
	require.NoError(t, err)
	return reg
}

func TestClass(t *testing.T) {
	assert.Equal(t, "A", barcode.A.String())
	assert.Equal(t, "D", barcode.D.String())
	assert.Equal(t, "C00", barcode.C.MissingCode())
	assert.Equal(t, "Class(7)", barcode.Class(7).String())
}

func TestRegistry(t *testing.T) {
	reg := parse(t, barcode.C, "C01 AAAAAA\n\nC02\tTTTTTT\n  C03   ACGTAC  \n")
	assert.Equal(t, barcode.C, reg.Class())
	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, 6, reg.BarcodeLen())
	assert.Equal(t, []string{"AAAAAA", "TTTTTT", "ACGTAC"}, reg.Barcodes())
	assert.Equal(t, "C01", reg.Code("AAAAAA"))
	assert.Equal(t, "C03", reg.Code("ACGTAC"))
	assert.Equal(t, "C00", reg.Code("AAAAAG"))
	assert.Equal(t, "C00", reg.Code(""))
	assert.Equal(t, "C00", reg.Missing())
	assert.Empty(t, reg.Conflicts())
}

func TestRegistryConflict(t *testing.T) {
	reg := parse(t, barcode.A, "X1 AAAAAA\nA02 CCCCCC\nX2 AAAAAA\nX3 AAAAAA\nA04 GGGGGG\nA04 GGGGGG\n")
	assert.Equal(t, "A00", reg.Code("AAAAAA"))
	assert.Equal(t, []string{"CCCCCC", "GGGGGG"}, reg.Barcodes())
	assert.Equal(t, "A04", reg.Code("GGGGGG"))
	assert.Equal(t, []barcode.Conflict{{Barcode: "AAAAAA", Codes: []string{"X1", "X2", "X3"}}}, reg.Conflicts())

	// The conflict is resolved the same way however often it is loaded.
	again := parse(t, barcode.A, "X1 AAAAAA\nA02 CCCCCC\nX2 AAAAAA\nX3 AAAAAA\nA04 GGGGGG\nA04 GGGGGG\n")
	assert.Equal(t, reg.Fingerprint(), again.Fingerprint())
}

func TestRegistryErrors(t *testing.T) {
	for _, test := range []struct {
		table, want string
	}{
		{"A01 AAAAAA extra\n", "test:1: expected 2 fields"},
		{"A01\n", "test:1: expected 2 fields"},
		{"A01 AAAAAA\nA02 AAAAN\n", `test:2: invalid barcode "AAAAN"`},
		{"A01 AAAAAA\nA02 AAAAA\n", "test:2: barcode AAAAA has length 5"},
		{"\n\n", "test: no barcodes"},
	} {
		_, err := barcode.ParseRegistry(strings.NewReader(test.table), "test", barcode.A)
		require.Error(t, err, test.table)
		assert.Contains(t, err.Error(), test.want)
		assert.True(t, errors.Is(errors.Invalid, err), "%v", err)
	}
}

func TestRegistryFingerprint(t *testing.T) {
	r1 := parse(t, barcode.B, "B01 AAAAAA\nB02 CCCCCC\n")
	r2 := parse(t, barcode.B, "B01 AAAAAA\nB02 CCCCCC\n")
	r3 := parse(t, barcode.B, "B01 AAAAAA\nB03 CCCCCC\n")
	assert.Equal(t, r1.Fingerprint(), r2.Fingerprint())
	assert.NotEqual(t, r1.Fingerprint(), r3.Fingerprint())
}

func TestRegistryMinDistance(t *testing.T) {
	assert.Equal(t, -1, parse(t, barcode.D, "D01 AAAAAA\n").MinDistance())
	assert.Equal(t, 6, parse(t, barcode.D, "D01 AAAAAA\nD02 TTTTTT\n").MinDistance())
	assert.Equal(t, 2, parse(t, barcode.D, "D01 AAAAAA\nD02 TTTTTT\nD03 AAAATT\n").MinDistance())
}

func TestLoadRegistry(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()
	path := filepath.Join(dir, "BC_B.txt")
	require.NoError(t, ioutil.WriteFile(path, []byte("B01 ACGTAC\nB02 TTGCAA\n"), 0600))
	reg, err := barcode.LoadRegistry(ctx, path, barcode.B)
	require.NoError(t, err)
	assert.Equal(t, "B02", reg.Code("TTGCAA"))

	_, err = barcode.LoadRegistry(ctx, filepath.Join(dir, "missing.txt"), barcode.B)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class B")
}

func TestMain(m *testing.M) {
	shutdown := grail.Init()
	defer shutdown()
	os.Exit(m.Run())
}
