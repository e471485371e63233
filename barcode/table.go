package barcode

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
)

// scanPairs calls fn for every non-blank line of a two-column,
// whitespace-separated table. Line numbers are 1-based. Any line with
// a different number of fields is an error.
func scanPairs(r io.Reader, name string, fn func(line int, first, second string) error) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return errors.E(errors.Invalid,
				fmt.Sprintf("%s:%d: expected 2 fields, found %d: %q", name, line, len(fields), sc.Text()))
		}
		if err := fn(line, fields[0], fields[1]); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return errors.E(err, "read", name)
	}
	return nil
}

func validBarcode(bc string) bool {
	for i := 0; i < len(bc); i++ {
		switch bc[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return len(bc) > 0
}
