package ioschema

import "fmt"

// collationSQL makes a text column sort by bytes.
func collationSQL(table, column string) string {
	return fmt.Sprintf(
		`ALTER TABLE %s ALTER COLUMN %s TYPE TEXT COLLATE "C"`,
		table, column,
	)
}
