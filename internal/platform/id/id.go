// Package id generates compact random identifiers for log records.
package id

import (
	"encoding/base32"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// NewID returns a random 26-character lowercase base32 identifier.
// The underlying bytes are a UUIDv4, so ids remain globally unique while
// staying filename- and URL-safe.
func NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return strings.ToLower(encoding.EncodeToString(value[:])), nil
}
