package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// isPgNoRowsError checks if error is a "no rows" error
func isPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
