package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateID returns a 12 character URL safe identifier. Used for teacher
// and iCal feed ids where a full UUID would be overkill.
func GenerateID() (string, error) {
	return gonanoid.Generate(idAlphabet, 12)
}
