package slotting

import "errors"

// Named error conditions surfaced to the presentation layer. All are
// recoverable at the call boundary: the caller prompts the user and retries.
// "No capacity" and "no fit" are soft outcomes expressed as nil results, not
// errors, because they trigger the Overflow fallback rather than a prompt.
var (
	ErrDuplicateShelf       = errors.New("shelf name already exists")
	ErrShelfNotFound        = errors.New("shelf not found")
	ErrShelfInUse           = errors.New("shelf has occupied slots")
	ErrShelfReferenced      = errors.New("letter sections reference this shelf")
	ErrShelfShrink          = errors.New("shrinking a shelf is not supported")
	ErrUnknownShelf         = errors.New("unknown shelf")
	ErrInvalidBound         = errors.New("bound must be a row letter A-Z followed by a column number")
	ErrSlotNotFound         = errors.New("slot does not exist")
	ErrSlotOccupied         = errors.New("slot already occupied")
	ErrAdjacentSlotOccupied = errors.New("adjacent slot already occupied")
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrPatientNotFound      = errors.New("patient not found")
)
