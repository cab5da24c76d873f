package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var digitRun = regexp.MustCompile(`[0-9]+`)

// RecoverPort attaches a loose numeric token from the line to the endpoint's port
// when the line produced exactly one endpoint without an attached port. With more
// than one endpoint a loose number cannot be attributed safely, so recovery is
// skipped entirely.
//
// Candidates are standalone digit runs of 2 to 5 digits. A candidate is rejected
// when its digit string occurs literally inside the address's own digits (an octet
// must not be reused as a port) or when its value falls outside (0, 65535]. The
// first surviving candidate wins; otherwise the port stays empty.
func RecoverPort(line string, endpoints []Endpoint) {
	if len(endpoints) != 1 || endpoints[0].Port != "" {
		return
	}

	addressDigits := strings.ReplaceAll(endpoints[0].Address, ".", "")

	for _, candidate := range digitRun.FindAllString(line, -1) {
		if len(candidate) < 2 || len(candidate) > 5 {
			continue
		}
		if strings.Contains(addressDigits, candidate) {
			continue
		}

		value, err := strconv.Atoi(candidate)
		if err != nil || value < 1 || value > 65535 {
			continue
		}

		endpoints[0].Port = candidate
		return
	}
}
