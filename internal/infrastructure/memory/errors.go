package memory

import "github.com/sangkips/salon-api/pkg/apperror"

func errDuplicate(field string) error {
	return apperror.NewConflictError("duplicate " + field)
}
