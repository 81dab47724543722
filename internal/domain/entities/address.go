package entities

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// postcodePattern matches a Dutch postcode after normalization: four digits
// followed by two letters, e.g. "1234AB".
var (
	postcodePattern    = regexp.MustCompile(`^\d{4}[A-Z]{2}$`)
	houseNumberPattern = regexp.MustCompile(`^\d+$`)
)

// AddressQuery is a structured address as typed by the searcher.
type AddressQuery struct {
	Postcode    string `json:"postcode"`
	HouseNumber string `json:"house_number"`
}

// Normalize returns a copy with all whitespace removed and letters
// uppercased. " 1234 ab " becomes "1234AB". A numeric house number loses
// its leading zeros, so "01" and "1" name the same address.
func (q AddressQuery) Normalize() AddressQuery {
	number := normalizeField(q.HouseNumber)
	if houseNumberPattern.MatchString(number) {
		if n, err := strconv.Atoi(number); err == nil {
			number = strconv.Itoa(n)
		}
	}
	return AddressQuery{
		Postcode:    normalizeField(q.Postcode),
		HouseNumber: number,
	}
}

func normalizeField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// Validate checks the normalized query locally. It never touches the network.
func (q AddressQuery) Validate() error {
	n := q.Normalize()
	if !postcodePattern.MatchString(n.Postcode) {
		return fmt.Errorf("%w: postcode %q must be 4 digits followed by 2 letters", ErrInvalidFormat, q.Postcode)
	}
	if !houseNumberPattern.MatchString(n.HouseNumber) {
		return fmt.Errorf("%w: house number %q must be a positive integer", ErrInvalidFormat, q.HouseNumber)
	}
	if num, err := strconv.Atoi(n.HouseNumber); err != nil || num <= 0 {
		return fmt.Errorf("%w: house number %q must be a positive integer", ErrInvalidFormat, q.HouseNumber)
	}
	return nil
}

// Key is the cache key of the normalized query: "{postcode}-{houseNumber}".
func (q AddressQuery) Key() string {
	n := q.Normalize()
	return n.Postcode + "-" + n.HouseNumber
}
