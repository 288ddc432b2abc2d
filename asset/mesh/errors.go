package mesh

import "errors"

var (
	ErrInconsistentImportData = errors.New("mesh: inconsistent import data")
)
