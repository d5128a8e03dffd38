// Package repository holds the MySQL access layer of the desk.  The
// sentinel errors below let handlers map storage failures to HTTP status
// codes without inspecting driver errors themselves.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a row does not exist (404).
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update collides with existing
// state, such as a duplicate identifier or an already released hold (409).
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when an operator email is already taken.
var ErrEmailExists = errors.New("email already exists")

// isDuplicate reports whether err is MySQL error 1062 (duplicate entry).
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
