package extract

import (
	"sort"
	"strings"
)

// AllCountries is the selector sentinel that disables country filtering.
const AllCountries = "ALL"

// Catalog returns the distinct country markers present in the record set, each
// exactly once, in ascending lexicographic order.
func Catalog(records RecordSet) []string {
	seen := make(map[string]struct{}, len(records))
	countries := make([]string, 0, len(records))

	for _, record := range records {
		if _, ok := seen[record.Country]; ok {
			continue
		}
		seen[record.Country] = struct{}{}
		countries = append(countries, record.Country)
	}

	sort.Strings(countries)
	return countries
}

// Render joins the surviving endpoints into newline-delimited text. AllCountries
// passes every record; any other selector keeps only matching records, so a
// selector absent from the catalog simply matches nothing. hidePort suppresses
// ports in the output without touching the record set itself.
func Render(records RecordSet, selectedCountry string, hidePort bool) string {
	var builder strings.Builder

	first := true
	for _, record := range records {
		if !matchesFilter(record, selectedCountry) {
			continue
		}

		if !first {
			builder.WriteString("\n")
		}
		first = false

		if hidePort {
			builder.WriteString(record.Address)
		} else {
			builder.WriteString(record.FullEndpoint())
		}
	}

	return builder.String()
}

// Stats reports the record set's total size and how many records survive the
// current country filter.
func Stats(records RecordSet, selectedCountry string) (total, filtered int) {
	total = len(records)
	for _, record := range records {
		if matchesFilter(record, selectedCountry) {
			filtered++
		}
	}
	return total, filtered
}

func matchesFilter(record Record, selectedCountry string) bool {
	return selectedCountry == AllCountries || record.Country == selectedCountry
}
