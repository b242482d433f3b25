package repository

import (
	"errors"
	"leadtime/shared/constant"

	"github.com/lib/pq"
)

// IsUniqueViolation reports whether err wraps a Postgres unique-constraint
// violation. Insert-or-fail claims rely on this to detect a lost race.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
}
