// Package utils provides shared utility functions used across the application.
//
// Go Learning Note — "pkg/" Directory Convention:
// Code under pkg/ is intended to be importable by external projects (unlike
// internal/ which is compiler-enforced private). This is a community convention,
// not a Go language feature.
package utils

import (
	"github.com/google/uuid"
)

// GenerateID creates a new UUID v4 string. Search sessions and request IDs
// use it.
//
// Go Learning Note — "github.com/google/uuid":
// uuid.New() creates a random (v4) UUID like
// "550e8400-e29b-41d4-a716-446655440000". Session IDs end up in URLs, so they
// must not be guessable the way a counter would be.
func GenerateID() string {
	return uuid.New().String()
}
