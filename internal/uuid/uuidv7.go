// Package uuid issues the time-ordered identifiers used for run logs and
// request ids.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a UUIDv7. The leading 48 bits carry the Unix millisecond
// timestamp, so ids sort by creation time.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
