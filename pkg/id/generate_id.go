package id

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// RequestCodePrefix marks public loan request codes.
	RequestCodePrefix = "LR-"
	// placeholderPrefix marks a row whose sequence number is not yet known.
	placeholderPrefix = "TMP-"
)

// RequestCode formats a sequence number as LR-000123 (at least 6 digits).
func RequestCode(seq uint64) string {
	return fmt.Sprintf("%s%06d", RequestCodePrefix, seq)
}

// PlaceholderCode is a unique stand-in used until RequestCode can be derived.
// It is TMP- followed by 32 lowercase hex characters, so it fits the code column.
func PlaceholderCode() string {
	return placeholderPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
