package extract

import (
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestBuildRecordSetSingleLine(t *testing.T) {
	records := BuildRecordSet("1.2.3.4:80 US ok")

	if len(records) != 1 {
		t.Fatalf("BuildRecordSet returned %d records, want 1", len(records))
	}

	want := Record{Address: "1.2.3.4", Port: "80", Country: "US", SourceLine: "1.2.3.4:80 US ok"}
	if records[0] != want {
		t.Fatalf("record = %+v, want %+v", records[0], want)
	}
}

func TestBuildRecordSetRecoversLoosePort(t *testing.T) {
	records := BuildRecordSet("10.0.0.1 8080 DE")

	if len(records) != 1 {
		t.Fatalf("BuildRecordSet returned %d records, want 1", len(records))
	}
	if records[0].Address != "10.0.0.1" || records[0].Port != "8080" || records[0].Country != "DE" {
		t.Fatalf("unexpected record %+v", records[0])
	}
}

func TestBuildRecordSetSkipsRecoveryOnAmbiguousLines(t *testing.T) {
	records := BuildRecordSet("1.1.1.1 2.2.2.2 FR")

	if len(records) != 2 {
		t.Fatalf("BuildRecordSet returned %d records, want 2", len(records))
	}
	for i, record := range records {
		if record.Port != "" {
			t.Fatalf("record %d got port %q, want empty", i, record.Port)
		}
		if record.Country != "FR" {
			t.Fatalf("record %d got country %q, want FR", i, record.Country)
		}
	}
}

func TestBuildRecordSetRejectsInvalidOctets(t *testing.T) {
	if records := BuildRecordSet("300.1.1.1 test"); len(records) != 0 {
		t.Fatalf("BuildRecordSet returned %d records, want 0", len(records))
	}
}

func TestBuildRecordSetSortsByCountry(t *testing.T) {
	records := BuildRecordSet("1.1.1.1 JP\n2.2.2.2 AU")

	if len(records) != 2 {
		t.Fatalf("BuildRecordSet returned %d records, want 2", len(records))
	}
	if records[0].Country != "AU" || records[1].Country != "JP" {
		t.Fatalf("records not sorted by country: %+v", records)
	}

	if got := Render(records, AllCountries, true); got != "2.2.2.2\n1.1.1.1" {
		t.Fatalf("Render returned %q, want %q", got, "2.2.2.2\n1.1.1.1")
	}
}

func TestBuildRecordSetEmptyInput(t *testing.T) {
	for _, input := range []string{"", "   ", "\n\n", "\r\n \r\n"} {
		records := BuildRecordSet(input)
		if len(records) != 0 {
			t.Fatalf("BuildRecordSet(%q) returned %d records, want 0", input, len(records))
		}

		total, filtered := Stats(records, AllCountries)
		if total != 0 || filtered != 0 {
			t.Fatalf("Stats(%q) = {%d, %d}, want {0, 0}", input, total, filtered)
		}
		if got := Render(records, AllCountries, false); got != "" {
			t.Fatalf("Render(%q) = %q, want empty string", input, got)
		}
	}
}

func TestBuildRecordSetIsDeterministic(t *testing.T) {
	input := "9.9.9.9:53 SE\n1.1.1.1 JP\n2.2.2.2 AU\n8.8.8.8 4000 AU\nnoise line\n"

	first := BuildRecordSet(input)
	second := BuildRecordSet(input)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated extraction differs:\n%v\n%v", first, second)
	}
}

func TestBuildRecordSetStableAmongEqualCountries(t *testing.T) {
	input := "3.3.3.3 DE\n1.1.1.1 DE\n2.2.2.2 DE"
	records := BuildRecordSet(input)

	want := []string{"3.3.3.3", "1.1.1.1", "2.2.2.2"}
	if len(records) != len(want) {
		t.Fatalf("BuildRecordSet returned %d records, want %d", len(records), len(want))
	}
	for i, record := range records {
		if record.Address != want[i] {
			t.Fatalf("record %d = %s, want %s (discovery order lost)", i, record.Address, want[i])
		}
	}
}

func TestBuildRecordSetIsTotal(t *testing.T) {
	inputs := []string{
		"\x00\x01\x02 binary garbage \xff\xfe",
		strings.Repeat("a", 1<<16),
		strings.Repeat("1.2.3.4:80 US\n", 500),
		"::::::",
		"....",
	}

	for _, input := range inputs {
		records := BuildRecordSet(input)
		for _, record := range records {
			assertRecordInvariants(t, record)
		}
	}
}

func TestBuildRecordSetKeepsCRLFLinesSeparate(t *testing.T) {
	records := BuildRecordSet("1.1.1.1 JP\r\n2.2.2.2 AU\r\n")

	if len(records) != 2 {
		t.Fatalf("BuildRecordSet returned %d records, want 2", len(records))
	}
	if records[0].SourceLine != "2.2.2.2 AU" {
		t.Fatalf("source line kept carriage return or wrong order: %q", records[0].SourceLine)
	}
}

func TestBuildRecordSetTreatsLoneCarriageReturnAsContent(t *testing.T) {
	input := "1.1.1.1 JP\r2.2.2.2 AU"
	records := BuildRecordSet(input)

	if len(records) != 2 {
		t.Fatalf("BuildRecordSet returned %d records, want 2", len(records))
	}

	for i, record := range records {
		// One line, so the first marker on it wins for every endpoint.
		if record.Country != "JP" {
			t.Fatalf("record %d has country %q, want JP", i, record.Country)
		}
		if record.SourceLine != input {
			t.Fatalf("record %d source line %q, want the raw line %q", i, record.SourceLine, input)
		}
	}

	if records[0].Address != "1.1.1.1" || records[1].Address != "2.2.2.2" {
		t.Fatalf("unexpected addresses: %+v", records)
	}
}

func TestReExtractionOfRenderedOutput(t *testing.T) {
	input := "1.2.3.4:80 US\n10.0.0.1 8080 DE\n5.5.5.5 JP"
	records := BuildRecordSet(input)

	again := BuildRecordSet(Render(records, AllCountries, false))
	if len(again) != len(records) {
		t.Fatalf("re-extraction returned %d records, want %d", len(again), len(records))
	}

	wantPairs := make(map[string]struct{}, len(records))
	for _, record := range records {
		wantPairs[record.FullEndpoint()] = struct{}{}
	}

	for _, record := range again {
		if _, ok := wantPairs[record.FullEndpoint()]; !ok {
			t.Fatalf("re-extraction produced unexpected endpoint %s", record.FullEndpoint())
		}
		// Markers were stripped by the render, so the country degrades.
		if record.Country != UnknownCountry {
			t.Fatalf("re-extracted record has country %q, want %q", record.Country, UnknownCountry)
		}
	}
}

func assertRecordInvariants(t *testing.T, record Record) {
	t.Helper()

	parts := strings.Split(record.Address, ".")
	if len(parts) != 4 {
		t.Fatalf("address %q does not have 4 octets", record.Address)
	}
	for _, part := range parts {
		octet, err := strconv.Atoi(part)
		if err != nil || octet < 0 || octet > 255 {
			t.Fatalf("address %q has octet %q out of range", record.Address, part)
		}
	}

	if record.Port != "" {
		port, err := strconv.Atoi(record.Port)
		if err != nil || port < 1 || port > 65535 {
			t.Fatalf("record port %q out of range", record.Port)
		}
	}
}
