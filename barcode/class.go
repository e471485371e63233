package barcode

import "fmt"

// Class is one of the four positional barcode slots.
type Class int

const (
	A Class = iota
	B
	C
	D

	// NumClasses is the number of barcode classes.
	NumClasses = 4
)

// Classes lists the barcode classes in alphabetical order.
var Classes = [NumClasses]Class{A, B, C, D}

func (c Class) String() string {
	if c < A || c > D {
		return fmt.Sprintf("Class(%d)", int(c))
	}
	return string(rune('A' + int(c)))
}

// MissingCode is the code reported for a barcode of class c that is
// not registered, e.g. "A00".
func (c Class) MissingCode() string {
	return c.String() + "00"
}
