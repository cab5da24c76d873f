package extract

import (
	"regexp"
	"strconv"
)

// Endpoint is one matched network address within a line. Port is empty when no
// port could be determined.
type Endpoint struct {
	Address string
	Port    string
}

// octetPattern matches a single decimal octet in [0, 255].
const octetPattern = `(?:25[0-5]|2[0-4][0-9]|1[0-9][0-9]|[1-9]?[0-9])`

// endpointRegex matches a dotted-quad IPv4 address with an optional :port bound
// directly to it. Word boundaries reject addresses embedded in longer digit runs.
var endpointRegex = regexp.MustCompile(
	`\b(` + octetPattern + `(?:\.` + octetPattern + `){3})\b(?::([0-9]{1,5})\b)?`,
)

// ScanLine returns every non-overlapping IPv4 (+ optional port) match of line in
// left-to-right order. A line without matches yields an empty slice.
func ScanLine(line string) []Endpoint {
	matches := endpointRegex.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return nil
	}

	endpoints := make([]Endpoint, 0, len(matches))
	for _, match := range matches {
		endpoints = append(endpoints, Endpoint{
			Address: match[1],
			Port:    normalizePort(match[2]),
		})
	}

	return endpoints
}

// normalizePort drops attached ports outside [1, 65535] so that downstream
// records only ever carry a usable port or none at all.
func normalizePort(port string) string {
	if port == "" {
		return ""
	}

	value, err := strconv.Atoi(port)
	if err != nil || value < 1 || value > 65535 {
		return ""
	}

	return port
}
