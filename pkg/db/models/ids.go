package models

import "github.com/google/uuid"

// assignID fills an empty primary key before insert so rows get the same ids
// on postgres and sqlite.
func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
