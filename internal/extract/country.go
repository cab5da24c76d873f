package extract

import "regexp"

// UnknownCountry is the sentinel marker for lines where no country token was found.
const UnknownCountry = "Unknown"

var tokenSeparator = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Tokens like OK or IP show up constantly in logs and would otherwise be taken
// for country codes.
var excludedTokens = map[string]struct{}{
	"OK":   {},
	"UP":   {},
	"IP":   {},
	"TCP":  {},
	"UDP":  {},
	"HTTP": {},
	"ID":   {},
}

// CountryOfLine infers a single country marker for a line. The first token made of
// exactly two uppercase ASCII letters that is not on the exclusion list wins; when
// nothing qualifies the line is marked UnknownCountry. This is a heuristic over the
// line's own tokens, not a geolocation lookup.
func CountryOfLine(line string) string {
	for _, token := range tokenSeparator.Split(line, -1) {
		if !isCountryToken(token) {
			continue
		}
		if _, excluded := excludedTokens[token]; excluded {
			continue
		}
		return token
	}

	return UnknownCountry
}

func isCountryToken(token string) bool {
	if len(token) != 2 {
		return false
	}
	return token[0] >= 'A' && token[0] <= 'Z' && token[1] >= 'A' && token[1] <= 'Z'
}
