package discovery

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"buurtmarkt/internal/domain/entities"
)

// fold lowercases s and strips diacritics so "José" matches "jose".
// A transformer chain keeps state, so one is built per call.
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// textMatcher implements the main search term: a candidate matches when any
// one of its searchable fields matches (OR semantics).
type textMatcher struct {
	term   string
	tokens []string
}

func newTextMatcher(term string) textMatcher {
	t := strings.TrimSpace(fold(term))
	return textMatcher{term: t, tokens: strings.Fields(t)}
}

func (m textMatcher) matches(c entities.Candidate) bool {
	if m.term == "" {
		return true
	}
	switch c.Kind {
	case entities.KindListing:
		return m.matchesListing(c.Listing)
	case entities.KindPerson:
		return m.matchesPerson(c.Person)
	}
	return false
}

func (m textMatcher) matchesListing(l *entities.Listing) bool {
	for _, field := range []string{l.Title, l.Description, l.SellerName, l.SellerUsername, l.Place, l.City} {
		if field != "" && strings.Contains(fold(field), m.term) {
			return true
		}
	}
	return anyTokenOverlaps(m.tokens, strings.Fields(fold(l.SellerName)))
}

func (m textMatcher) matchesPerson(p *entities.Person) bool {
	for _, field := range []string{p.Username, p.Name, p.Bio, p.Place, p.City} {
		if field != "" && strings.Contains(fold(field), m.term) {
			return true
		}
	}
	return allTokensInParts(m.tokens, strings.Fields(fold(p.Name)))
}

// anyTokenOverlaps reports whether some query token is a substring of some
// name token, or the other way around. "jan" matches "Jansen" and "marianne"
// matches "Maria".
func anyTokenOverlaps(queryTokens, nameTokens []string) bool {
	for _, qt := range queryTokens {
		for _, nt := range nameTokens {
			if strings.Contains(nt, qt) || strings.Contains(qt, nt) {
				return true
			}
		}
	}
	return false
}

// allTokensInParts reports whether every query token is contained in some
// name part, which lets "maria jansen" find "Maria de Jansen".
func allTokensInParts(queryTokens, nameParts []string) bool {
	if len(queryTokens) == 0 || len(nameParts) == 0 {
		return false
	}
	for _, qt := range queryTokens {
		found := false
		for _, part := range nameParts {
			if strings.Contains(part, qt) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// locationMatcher implements the separate free-text location field: a plain
// substring match against a composed description of the candidate.
type locationMatcher struct {
	term string
}

func newLocationMatcher(text string) locationMatcher {
	return locationMatcher{term: strings.TrimSpace(fold(text))}
}

func (m locationMatcher) matches(c entities.Candidate) bool {
	if m.term == "" {
		return true
	}
	var composed string
	switch c.Kind {
	case entities.KindListing:
		composed = strings.Join([]string{c.Listing.Title, c.Listing.Description, c.Listing.Place}, " ")
	case entities.KindPerson:
		composed = strings.Join([]string{c.Person.Name, c.Person.Username, c.Person.Place}, " ")
	default:
		return false
	}
	return strings.Contains(fold(composed), m.term)
}
