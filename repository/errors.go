package repository

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateProposal is returned when an insert violates the unique
	// index on (rfp_id, vendor_id).
	ErrDuplicateProposal = errors.New("proposal already exists for this rfp and vendor")
)
