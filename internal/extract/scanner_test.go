package extract

import (
	"reflect"
	"testing"
)

func TestScanLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []Endpoint
	}{
		{
			"address with port",
			"1.2.3.4:80 US ok",
			[]Endpoint{{Address: "1.2.3.4", Port: "80"}},
		},
		{
			"address without port",
			"connected from 10.0.0.1 today",
			[]Endpoint{{Address: "10.0.0.1", Port: ""}},
		},
		{
			"multiple endpoints on one line",
			`{"src":"1.1.1.1","dst":"2.2.2.2:443"}`,
			[]Endpoint{{Address: "1.1.1.1", Port: ""}, {Address: "2.2.2.2", Port: "443"}},
		},
		{
			"invalid octet never matches",
			"300.1.1.1 test",
			nil,
		},
		{
			"address embedded in digit run is rejected",
			"build 12.3.4.5678 done",
			nil,
		},
		{
			"port longer than five digits is not attached",
			"9.9.9.9:123456",
			[]Endpoint{{Address: "9.9.9.9", Port: ""}},
		},
		{
			"port zero is dropped",
			"9.9.9.9:0",
			[]Endpoint{{Address: "9.9.9.9", Port: ""}},
		},
		{
			"port above range is dropped",
			"9.9.9.9:99999",
			[]Endpoint{{Address: "9.9.9.9", Port: ""}},
		},
		{
			"no match at all",
			"nothing to see here",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScanLine(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ScanLine(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestScanLinePreservesOrder(t *testing.T) {
	line := "3.3.3.3 1.1.1.1 2.2.2.2"
	got := ScanLine(line)

	want := []string{"3.3.3.3", "1.1.1.1", "2.2.2.2"}
	if len(got) != len(want) {
		t.Fatalf("ScanLine returned %d endpoints, want %d", len(got), len(want))
	}
	for i, endpoint := range got {
		if endpoint.Address != want[i] {
			t.Fatalf("endpoint %d = %s, want %s", i, endpoint.Address, want[i])
		}
	}
}
