package services

import (
	"strings"
	"testing"
	"time"

	"github.com/sila-platform/sila-api/model"
)

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	got := exportFilename("ministry_statistics", "Ministry of Social Affairs", now)
	want := "ministry_statistics_Ministry_of_Social_Affairs_20260829.csv"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEncodeCSVBlankSeparator(t *testing.T) {
	data, err := encodeCSV([][]string{
		{"a", "b"},
		{},
		{"c"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a,b\n\nc\n" {
		t.Errorf("unexpected encoding: %q", string(data))
	}
}

func TestTruncateNotes(t *testing.T) {
	long := strings.Repeat("x", 150)
	if got := truncateNotes(long); len(got) != reviewNotesMaxLen {
		t.Errorf("expected %d chars, got %d", reviewNotesMaxLen, len(got))
	}
	if got := truncateNotes("short"); got != "short" {
		t.Errorf("short notes must pass through, got %q", got)
	}
}

func TestMinistryApplicationRows(t *testing.T) {
	submitted := time.Date(2026, 8, 10, 9, 30, 45, 0, time.UTC)
	reviewed := time.Date(2026, 8, 12, 14, 0, 0, 0, time.UTC)
	apps := []model.ProgramApplication{
		{
			ID:     42,
			Status: model.ApplicationStatusApproved,
			Program: &model.Program{
				Name:   "Housing",
				Status: model.ProgramStatusActive,
			},
			Beneficiary: &model.Beneficiary{
				User:    &model.User{FirstName: "Sara", LastName: "Ahmed"},
				Charity: &model.Charity{Name: "Hope"},
			},
			SubmittedAt: submitted,
			ReviewedAt:  &reviewed,
			ReviewNotes: strings.Repeat("n", 120),
		},
		{ID: 43, Status: model.ApplicationStatusPending, SubmittedAt: submitted},
	}

	rows := ministryApplicationRows(apps)
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}

	header := strings.Join(rows[0], ",")
	wantHeader := "Application ID,Program Name,Program Status,Beneficiary Name,Charity Name,Application Status,Submitted Date,Reviewed Date,Review Notes"
	if header != wantHeader {
		t.Errorf("header mismatch:\n  got  %q\n  want %q", header, wantHeader)
	}

	row := rows[1]
	if row[0] != "42" || row[1] != "Housing" || row[2] != "ACTIVE" || row[3] != "Sara Ahmed" || row[4] != "Hope" {
		t.Errorf("row cells wrong: %v", row)
	}
	if row[6] != "2026-08-10 09:30:45" || row[7] != "2026-08-12 14:00:00" {
		t.Errorf("timestamps wrong: %q / %q", row[6], row[7])
	}
	if len(row[8]) != reviewNotesMaxLen {
		t.Errorf("notes not truncated, got %d chars", len(row[8]))
	}

	// unloaded relations render as blanks, never panic
	bare := rows[2]
	if bare[1] != "" || bare[3] != "" || bare[7] != "" {
		t.Errorf("expected blanks for missing relations: %v", bare)
	}
}

func TestMinistrySummaryRows(t *testing.T) {
	programs := []model.Program{
		{ID: 1, Name: "Housing", Status: model.ProgramStatusActive},
		{ID: 2, Name: "Food", Status: model.ProgramStatusClosed},
	}
	apps := []model.ProgramApplication{
		{ID: 1, ProgramID: 1, BeneficiaryID: 1, Status: model.ApplicationStatusPending},
		{ID: 2, ProgramID: 1, BeneficiaryID: 1, Status: model.ApplicationStatusApproved},
	}

	rows := ministrySummaryRows("Ministry", programs, apps)
	assertRow(t, rows, 0, "Statistic", "Value")
	assertRow(t, rows, 1, "Ministry Name", "Ministry")
	assertRow(t, rows, 2, "Total Programs", "2")
	assertRow(t, rows, 3, "Active Programs", "1")
	assertRow(t, rows, 4, "Total Applications", "2")
	assertRow(t, rows, 5, "Unique Beneficiaries", "1")
	if len(rows[6]) != 0 {
		t.Errorf("expected blank separator at row 6, got %v", rows[6])
	}
	assertRow(t, rows, 7, "Applications by Status")
	assertRow(t, rows, 8, "Status", "Count")
	assertRow(t, rows, 9, "APPROVED", "1")
	assertRow(t, rows, 10, "PENDING", "1")
	assertRow(t, rows, 12, "Applications by Program")
	assertRow(t, rows, 14, "Housing", "2", "1")
	assertRow(t, rows, 15, "Food", "0", "0")
}

func TestEventRows(t *testing.T) {
	capacity := 2
	date := time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC)
	events := []model.Event{
		{ID: 1, Title: "Food Drive", EventDate: date, Location: "Hall A", City: "Riyadh", MaxCapacity: &capacity, IsActive: true},
		{ID: 2, Title: "Gala", EventDate: date, IsActive: false},
	}
	allRegs := []model.EventRegistration{
		{EventID: 1}, {EventID: 1}, {EventID: 1}, // over capacity
	}

	rows := eventRows(events, allRegs)
	header := strings.Join(rows[0], ",")
	wantHeader := "Event ID,Event Title,Event Date,Location,City,Max Capacity,Current Registrations,Available Spots,Status"
	if header != wantHeader {
		t.Errorf("header mismatch:\n  got  %q\n  want %q", header, wantHeader)
	}

	full := rows[1]
	if full[2] != "2026-09-01 18:30" {
		t.Errorf("event date format wrong: %q", full[2])
	}
	if full[5] != "2" || full[6] != "3" {
		t.Errorf("capacity cells wrong: %v", full)
	}
	if full[7] != "0" {
		t.Errorf("available spots must floor at 0, got %q", full[7])
	}
	if full[8] != "Active" {
		t.Errorf("expected Active, got %q", full[8])
	}

	unlimited := rows[2]
	if unlimited[5] != "" || unlimited[7] != "" {
		t.Errorf("nil capacity must render blank cells: %v", unlimited)
	}
	if unlimited[8] != "Inactive" {
		t.Errorf("expected Inactive, got %q", unlimited[8])
	}
}

func TestRegistrationRows(t *testing.T) {
	registered := time.Date(2026, 8, 20, 10, 15, 0, 0, time.UTC)
	regs := []model.EventRegistration{
		{
			ID:       5,
			Attended: true,
			Event: &model.Event{
				Title:     "Food Drive",
				EventDate: time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
				Location:  "Hall A",
			},
			Beneficiary: &model.Beneficiary{
				NationalID: "1234567890",
				User:       &model.User{FirstName: "Sara", LastName: "Ahmed"},
			},
			RegisteredAt: registered,
			Notes:        "wheelchair access",
		},
		{ID: 6, RegisteredAt: registered},
	}

	rows := registrationRows(regs)
	row := rows[1]
	if row[0] != "5" || row[1] != "Food Drive" || row[2] != "2026-09-01 18:00" || row[3] != "Hall A" {
		t.Errorf("event cells wrong: %v", row)
	}
	if row[4] != "Sara Ahmed" || row[5] != "1234567890" {
		t.Errorf("beneficiary cells wrong: %v", row)
	}
	if row[6] != "2026-08-20 10:15" || row[7] != "Yes" || row[8] != "wheelchair access" {
		t.Errorf("trailing cells wrong: %v", row)
	}
	if rows[2][7] != "No" {
		t.Errorf("expected No for unattended, got %q", rows[2][7])
	}
}

func TestCharitySummaryRows(t *testing.T) {
	charity := &model.Charity{ID: 1, Name: "Hope"}
	data := &charityData{
		beneficiaries: []model.Beneficiary{{IsActive: true}, {IsActive: false}},
		events:        []model.Event{{IsActive: true}},
		regs:          []model.EventRegistration{{Attended: true}, {}},
		apps: []model.ProgramApplication{
			{Status: model.ApplicationStatusPending},
			{Status: model.ApplicationStatusPending},
			{Status: model.ApplicationStatusApproved},
		},
	}

	rows := charitySummaryRows(charity, data)
	assertRow(t, rows, 1, "Charity Name", "Hope")
	assertRow(t, rows, 2, "Total Beneficiaries", "2")
	assertRow(t, rows, 3, "Active Beneficiaries", "1")
	assertRow(t, rows, 6, "Total Registrations", "2")
	assertRow(t, rows, 7, "Attended Registrations", "1")
	assertRow(t, rows, 8, "Total Applications", "3")
	assertRow(t, rows, 9, "Applications - APPROVED", "1")
	assertRow(t, rows, 10, "Applications - PENDING", "2")
}

func TestCharityFullRowsSections(t *testing.T) {
	charity := &model.Charity{ID: 1, Name: "Hope"}
	data := &charityData{}

	rows := charityFullRows(charity, data)

	sections := []string{
		"=== CHARITY STATISTICS SUMMARY ===",
		"=== EVENTS SUMMARY ===",
		"=== EVENT REGISTRATIONS ===",
		"=== PROGRAM APPLICATIONS ===",
	}
	idx := -1
	for _, section := range sections {
		found := -1
		for i, row := range rows {
			if len(row) == 1 && row[0] == section {
				found = i
				break
			}
		}
		if found < 0 {
			t.Fatalf("section %q missing", section)
		}
		if found <= idx {
			t.Errorf("section %q out of order at %d", section, found)
		}
		if found > 0 && len(rows[found-1]) != 0 {
			t.Errorf("section %q not preceded by a blank row", section)
		}
		idx = found
	}
}

func assertRow(t *testing.T, rows [][]string, i int, want ...string) {
	t.Helper()
	if i >= len(rows) {
		t.Fatalf("missing row %d", i)
	}
	got := rows[i]
	if len(got) != len(want) {
		t.Fatalf("row %d has %d cells, want %d: %v", i, len(got), len(want), got)
	}
	for j := range want {
		if got[j] != want[j] {
			t.Errorf("row %d cell %d: got %q, want %q", i, j, got[j], want[j])
		}
	}
}
