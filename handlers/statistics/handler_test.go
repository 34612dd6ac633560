package statistics

import (
	"encoding/json"
	"testing"
)

func TestExportRequestFlexibleIDs(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"number", `{"program_id": 7}`, "7"},
		{"string", `{"program_id": "7"}`, "7"},
		{"null", `{"program_id": null}`, ""},
		{"absent", `{}`, ""},
	}
	for _, c := range cases {
		var req ExportRequest
		if err := json.Unmarshal([]byte(c.body), &req); err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if string(req.ProgramID) != c.want {
			t.Errorf("%s: got %q, want %q", c.name, req.ProgramID, c.want)
		}
	}
}

func TestBuildFilters(t *testing.T) {
	f := buildFilters("3", "abc", "PENDING", "2026-08-01", "bad-date")
	if f.ProgramID != 3 {
		t.Errorf("program id: got %d", f.ProgramID)
	}
	if f.EventID != 0 {
		t.Errorf("unparseable event id must become 0, got %d", f.EventID)
	}
	if f.DateFrom == nil || f.DateTo != nil {
		t.Errorf("date parsing wrong: from=%v to=%v", f.DateFrom, f.DateTo)
	}
	// raw strings are echoed back even when unparseable
	if f.RawEventID != "abc" || f.RawDateTo != "bad-date" || f.RawStatus != "PENDING" {
		t.Errorf("raw echo wrong: %+v", f)
	}
}
