package extract

import (
	"sort"
	"strings"
)

// Record is one extracted endpoint annotated with the line's country marker and
// the raw line it came from.
type Record struct {
	Address    string `json:"address"`
	Port       string `json:"port"`
	Country    string `json:"country"`
	SourceLine string `json:"source_line"`
}

// RecordSet is the full set of records extracted from one input text, sorted
// ascending by country. Ties keep their discovery order.
type RecordSet []Record

// FullEndpoint renders the record as address:port, or just the address when no
// port was determined.
func (record Record) FullEndpoint() string {
	if record.Port == "" {
		return record.Address
	}
	return record.Address + ":" + record.Port
}

// BuildRecordSet runs the whole extraction pipeline over rawText. It is total:
// any input, including the empty string, yields a (possibly empty) RecordSet
// without error. The input is never mutated and identical inputs always produce
// identical record sets.
func BuildRecordSet(rawText string) RecordSet {
	lines := strings.Split(rawText, "\n")

	records := make(RecordSet, 0, len(lines))
	for _, line := range lines {
		// Only \n and \r\n terminate lines; a lone \r is line content.
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		endpoints := ScanLine(line)
		if len(endpoints) == 0 {
			continue
		}

		country := CountryOfLine(line)
		RecoverPort(line, endpoints)

		for _, endpoint := range endpoints {
			records = append(records, Record{
				Address:    endpoint.Address,
				Port:       endpoint.Port,
				Country:    country,
				SourceLine: line,
			})
		}
	}

	SortByCountry(records)
	return records
}

// SortByCountry sorts records ascending by country marker. The sort is stable so
// that equal-country records keep their discovery order, which keeps output
// deterministic across runs on unchanged input.
func SortByCountry(records RecordSet) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Country < records[j].Country
	})
}
