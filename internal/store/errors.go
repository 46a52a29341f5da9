package store

import "strings"

// The SQLite driver surfaces lock contention as error text, not typed
// errors, so the retry decision in SaveTurn matches on the message.

func isSQLiteBusy(err error) bool {
	return err != nil && strings.Contains(err.Error(), "SQLITE_BUSY")
}

func isSQLiteLocked(err error) bool {
	return err != nil && strings.Contains(err.Error(), "database is locked")
}

// isSQLiteConflict reports whether err is one of the transient contention
// errors worth a single retry. Constraint violations are not conflicts.
func isSQLiteConflict(err error) bool {
	return isSQLiteBusy(err) || isSQLiteLocked(err)
}
