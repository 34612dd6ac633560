package services

import (
	"testing"
	"time"

	"github.com/sila-platform/sila-api/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func appAt(id, beneficiaryID, programID uint, status string, submitted time.Time) model.ProgramApplication {
	return model.ProgramApplication{
		ID:            id,
		BeneficiaryID: beneficiaryID,
		ProgramID:     programID,
		Status:        status,
		SubmittedAt:   submitted,
	}
}

func TestBuildTimeSeries(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	times := []time.Time{
		time.Date(2026, 8, 29, 1, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 29, 23, 59, 0, 0, time.UTC),
		time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC), // outside the window
	}

	series := buildTimeSeries(times, now)
	if len(series) != 30 {
		t.Fatalf("expected 30 buckets, got %d", len(series))
	}
	last := series[len(series)-1]
	if last.Date != "2026-08-29" || last.Day != "29/08" {
		t.Errorf("last bucket should be today, got %q / %q", last.Date, last.Day)
	}
	if last.Count != 2 {
		t.Errorf("expected 2 submissions today, got %d", last.Count)
	}
	first := series[0]
	if first.Date != "2026-07-31" {
		t.Errorf("first bucket should be 29 days back, got %q", first.Date)
	}
	for i := 1; i < len(series); i++ {
		if series[i].Date <= series[i-1].Date {
			t.Fatalf("series not chronological at %d: %q after %q", i, series[i].Date, series[i-1].Date)
		}
	}
	var total int64
	for _, p := range series {
		total += p.Count
	}
	if total != 3 {
		t.Errorf("expected 3 in-window submissions, got %d", total)
	}
}

func TestAvgProcessingDays(t *testing.T) {
	submitted := day(2026, 8, 1)
	reviewedIn3 := submitted.Add(3*24*time.Hour + 6*time.Hour)
	reviewedIn1 := submitted.Add(24 * time.Hour)

	apps := []model.ProgramApplication{
		{SubmittedAt: submitted, ReviewedAt: &reviewedIn3},
		{SubmittedAt: submitted, ReviewedAt: &reviewedIn1},
		{SubmittedAt: submitted}, // pending, excluded
	}
	got := avgProcessingDays(apps)
	if got == nil {
		t.Fatal("expected a value when reviewed applications exist")
	}
	// 3 whole days and 1 whole day average to 2.0
	if *got != 2.0 {
		t.Errorf("expected 2.0, got %v", *got)
	}

	if avgProcessingDays([]model.ProgramApplication{{SubmittedAt: submitted}}) != nil {
		t.Error("expected nil when nothing has been reviewed")
	}
	if avgProcessingDays(nil) != nil {
		t.Error("expected nil for empty input")
	}
}

func TestAvgProcessingDaysRounding(t *testing.T) {
	submitted := day(2026, 8, 1)
	r1 := submitted.Add(1 * 24 * time.Hour)
	r2 := submitted.Add(2 * 24 * time.Hour)
	r3 := submitted.Add(2 * 24 * time.Hour)
	apps := []model.ProgramApplication{
		{SubmittedAt: submitted, ReviewedAt: &r1},
		{SubmittedAt: submitted, ReviewedAt: &r2},
		{SubmittedAt: submitted, ReviewedAt: &r3},
	}
	got := avgProcessingDays(apps)
	if got == nil || *got != 1.7 {
		t.Fatalf("expected 1.7, got %v", got)
	}
}

func TestFilterApplications(t *testing.T) {
	from := day(2026, 8, 10)
	to := day(2026, 8, 20)
	apps := []model.ProgramApplication{
		appAt(1, 1, 1, model.ApplicationStatusPending, day(2026, 8, 10)),                              // on from bound
		appAt(2, 2, 1, model.ApplicationStatusApproved, day(2026, 8, 15)),                             // wrong status
		appAt(3, 3, 1, model.ApplicationStatusPending, time.Date(2026, 8, 20, 23, 0, 0, 0, time.UTC)), // on to bound
		appAt(4, 4, 1, model.ApplicationStatusPending, day(2026, 8, 21)),                              // past to
		appAt(5, 5, 1, model.ApplicationStatusPending, day(2026, 8, 9)),                               // before from
	}

	got := filterApplications(apps, StatisticsFilters{
		Status:   model.ApplicationStatusPending,
		DateFrom: &from,
		DateTo:   &to,
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("expected ids 1 and 3, got %d and %d", got[0].ID, got[1].ID)
	}

	if n := len(filterApplications(apps, StatisticsFilters{})); n != len(apps) {
		t.Errorf("no filters should keep all %d rows, got %d", len(apps), n)
	}
}

func TestFilterRegistrations(t *testing.T) {
	regs := []model.EventRegistration{
		{ID: 1, EventID: 10, RegisteredAt: day(2026, 8, 1)},
		{ID: 2, EventID: 11, RegisteredAt: day(2026, 8, 1)},
		{ID: 3, EventID: 10, RegisteredAt: day(2026, 7, 1)},
	}
	from := day(2026, 8, 1)
	got := filterRegistrations(regs, StatisticsFilters{EventID: 10, DateFrom: &from})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected only registration 1, got %+v", got)
	}
}

func TestCountByStatusOrder(t *testing.T) {
	apps := []model.ProgramApplication{
		{Status: model.ApplicationStatusRejected},
		{Status: model.ApplicationStatusApproved},
		{Status: model.ApplicationStatusRejected},
		{Status: model.ApplicationStatusPending},
	}
	got := countByStatus(apps)
	want := []StatusCount{
		{Status: "APPROVED", Count: 1},
		{Status: "PENDING", Count: 1},
		{Status: "REJECTED", Count: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d statuses, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("at %d expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestCountByProgramOrdersBusiestFirst(t *testing.T) {
	alpha := &model.Program{ID: 1, Name: "Alpha"}
	beta := &model.Program{ID: 2, Name: "Beta"}
	gamma := &model.Program{ID: 3, Name: "Gamma"}
	apps := []model.ProgramApplication{
		{ProgramID: 2, Program: beta},
		{ProgramID: 2, Program: beta},
		{ProgramID: 1, Program: alpha},
		{ProgramID: 3, Program: gamma},
	}
	got := countByProgram(apps)
	if len(got) != 3 {
		t.Fatalf("expected 3 programs, got %d", len(got))
	}
	if got[0].ProgramName != "Beta" || got[0].Count != 2 {
		t.Errorf("busiest first, got %+v", got[0])
	}
	// ties break on name ascending
	if got[1].ProgramName != "Alpha" || got[2].ProgramName != "Gamma" {
		t.Errorf("tie order wrong: %q then %q", got[1].ProgramName, got[2].ProgramName)
	}
}

func TestCountByCharityLimit(t *testing.T) {
	apps := make([]model.ProgramApplication, 0, 12)
	for i := uint(1); i <= 12; i++ {
		name := string(rune('A' + i - 1))
		apps = append(apps, model.ProgramApplication{
			BeneficiaryID: i,
			Beneficiary: &model.Beneficiary{
				CharityID: i,
				Charity:   &model.Charity{ID: i, Name: name},
			},
		})
	}
	got := countByCharity(apps, 10)
	if len(got) != 10 {
		t.Fatalf("expected cap at 10, got %d", len(got))
	}
	if got[0].CharityName != "A" {
		t.Errorf("equal counts should order by name, got %q first", got[0].CharityName)
	}
}

func TestCountByCharityNilRelations(t *testing.T) {
	apps := []model.ProgramApplication{
		{BeneficiaryID: 1},
		{BeneficiaryID: 2, Beneficiary: &model.Beneficiary{CharityID: 5}},
	}
	got := countByCharity(apps, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	for _, c := range got {
		if c.CharityName != "" {
			t.Errorf("unloaded relations should produce blank names, got %q", c.CharityName)
		}
	}
}

func TestCountRecent(t *testing.T) {
	now := day(2026, 8, 29)
	apps := []model.ProgramApplication{
		{SubmittedAt: now.Add(-6 * 24 * time.Hour)},
		{SubmittedAt: now.Add(-7 * 24 * time.Hour)}, // exactly on the cutoff counts
		{SubmittedAt: now.Add(-8 * 24 * time.Hour)},
	}
	if got := countRecent(apps, now); got != 2 {
		t.Errorf("expected 2 recent applications, got %d", got)
	}
}

func TestUniqueBeneficiaries(t *testing.T) {
	apps := []model.ProgramApplication{
		{BeneficiaryID: 1}, {BeneficiaryID: 1}, {BeneficiaryID: 2},
	}
	if got := uniqueBeneficiaries(apps); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestBuildMinistryStatistics(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	housing := model.Program{ID: 1, Name: "Housing", Status: model.ProgramStatusActive}
	food := model.Program{ID: 2, Name: "Food", Status: model.ProgramStatusClosed}
	programs := []model.Program{housing, food}
	apps := []model.ProgramApplication{
		appAt(1, 1, 1, model.ApplicationStatusPending, now.Add(-time.Hour)),
		appAt(2, 1, 1, model.ApplicationStatusApproved, now.Add(-48*time.Hour)),
		appAt(3, 2, 2, model.ApplicationStatusPending, now.Add(-10*24*time.Hour)),
	}

	stats := buildMinistryStatistics("Ministry of Social Affairs", programs, apps, StatisticsFilters{RawStatus: "PENDING"}, now)

	if stats.TotalPrograms != 2 || stats.ActivePrograms != 1 || stats.ClosedPrograms != 1 {
		t.Errorf("program counts wrong: %+v", stats)
	}
	if stats.TotalApplications != 3 || stats.UniqueBeneficiaries != 2 {
		t.Errorf("application counts wrong: total=%d unique=%d", stats.TotalApplications, stats.UniqueBeneficiaries)
	}
	if stats.RecentApplications != 2 {
		t.Errorf("expected 2 recent applications, got %d", stats.RecentApplications)
	}
	if stats.FiltersApplied.Status != "PENDING" {
		t.Errorf("filters echo wrong: %+v", stats.FiltersApplied)
	}
	if len(stats.ProgramsSummary) != 2 {
		t.Fatalf("expected a summary per program, got %d", len(stats.ProgramsSummary))
	}
	if stats.ProgramsSummary[0].Name != "Housing" || stats.ProgramsSummary[0].TotalApplications != 2 ||
		stats.ProgramsSummary[0].UniqueBeneficiaries != 1 {
		t.Errorf("housing summary wrong: %+v", stats.ProgramsSummary[0])
	}
	if len(stats.ApplicationsOverTime) != 30 {
		t.Errorf("expected a 30 day series, got %d points", len(stats.ApplicationsOverTime))
	}
	if stats.AvgProcessingDays != nil {
		t.Errorf("no reviewed applications, expected nil avg, got %v", *stats.AvgProcessingDays)
	}
}

func TestBuildCharityStatistics(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	charity := &model.Charity{ID: 7, Name: "Hope Foundation"}
	capacity := 2

	soon := now.Add(48 * time.Hour)
	far := now.Add(10 * 24 * time.Hour)
	events := []model.Event{
		{ID: 1, Title: "Food Drive", EventDate: soon, IsActive: true, MaxCapacity: &capacity, Location: "Hall A"},
		{ID: 2, Title: "Workshop", EventDate: far, IsActive: true},
		{ID: 3, Title: "Old Gala", EventDate: now.Add(-24 * time.Hour), IsActive: false},
	}
	allRegs := []model.EventRegistration{
		{ID: 1, EventID: 1, BeneficiaryID: 1, Attended: true, RegisteredAt: now.Add(-40 * 24 * time.Hour)},
		{ID: 2, EventID: 1, BeneficiaryID: 2, RegisteredAt: now.Add(-time.Hour)},
		{ID: 3, EventID: 3, BeneficiaryID: 1, Attended: true, RegisteredAt: now.Add(-2 * time.Hour)},
	}
	data := &charityData{
		beneficiaries: []model.Beneficiary{
			{ID: 1, IsActive: true}, {ID: 2, IsActive: false},
		},
		events:  events,
		allRegs: allRegs,
		// a date filter has excluded the oldest registration
		regs: allRegs[1:],
		apps: []model.ProgramApplication{
			{ID: 1, BeneficiaryID: 1, Status: model.ApplicationStatusPending},
		},
	}

	stats := buildCharityStatistics(charity, data, StatisticsFilters{}, now)

	if stats.TotalBeneficiaries != 2 || stats.ActiveBeneficiaries != 1 || stats.InactiveBeneficiaries != 1 {
		t.Errorf("beneficiary counts wrong: %+v", stats)
	}
	if stats.TotalEvents != 3 || stats.ActiveEvents != 2 || stats.InactiveEvents != 1 {
		t.Errorf("event counts wrong: %+v", stats)
	}

	// capacity figures come from the unfiltered registration set
	var foodDrive *EventSummary
	for i := range stats.EventsSummary {
		if stats.EventsSummary[i].ID == 1 {
			foodDrive = &stats.EventsSummary[i]
		}
	}
	if foodDrive == nil {
		t.Fatal("missing food drive summary")
	}
	if foodDrive.CurrentRegistrations != 2 {
		t.Errorf("expected 2 registrations including the filtered-out one, got %d", foodDrive.CurrentRegistrations)
	}
	if foodDrive.AvailableSpots == nil || *foodDrive.AvailableSpots != 0 {
		t.Errorf("expected 0 available spots, got %v", foodDrive.AvailableSpots)
	}
	if foodDrive.AttendedCount != 1 {
		t.Errorf("expected 1 attended, got %d", foodDrive.AttendedCount)
	}

	// only the event inside the next seven days is upcoming
	if len(stats.UpcomingEvents) != 1 || stats.UpcomingEvents[0].Title != "Food Drive" {
		t.Errorf("upcoming events wrong: %+v", stats.UpcomingEvents)
	}

	// attendance rate uses the filtered set: 1 attended of 2
	if stats.TotalRegistrations != 2 || stats.AttendedRegistrations != 1 {
		t.Errorf("registration counts wrong: total=%d attended=%d", stats.TotalRegistrations, stats.AttendedRegistrations)
	}
	if stats.AttendanceRate != 50.0 {
		t.Errorf("expected 50.0 attendance rate, got %v", stats.AttendanceRate)
	}
}

func TestBuildCharityStatisticsOverCapacity(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	capacity := 2
	data := &charityData{
		events: []model.Event{
			{ID: 1, Title: "Oversubscribed", EventDate: now.Add(-time.Hour), MaxCapacity: &capacity},
		},
		allRegs: []model.EventRegistration{
			{ID: 1, EventID: 1, BeneficiaryID: 1},
			{ID: 2, EventID: 1, BeneficiaryID: 2},
			{ID: 3, EventID: 1, BeneficiaryID: 3},
		},
	}

	stats := buildCharityStatistics(&model.Charity{ID: 1, Name: "Hope"}, data, StatisticsFilters{}, now)
	summary := stats.EventsSummary[0]
	if summary.CurrentRegistrations != 3 {
		t.Fatalf("expected 3 registrations, got %d", summary.CurrentRegistrations)
	}
	if summary.AvailableSpots == nil || *summary.AvailableSpots != 0 {
		t.Errorf("available spots must floor at 0 past capacity, got %v", summary.AvailableSpots)
	}
}

func TestBuildCharityStatisticsUpcomingWindowBounds(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	weekAhead := now.Add(7 * 24 * time.Hour)
	data := &charityData{
		events: []model.Event{
			{ID: 1, Title: "Starts Now", EventDate: now, IsActive: true},
			{ID: 2, Title: "Week Edge", EventDate: weekAhead, IsActive: true},
			{ID: 3, Title: "Just Passed", EventDate: now.Add(-time.Minute), IsActive: true},
			{ID: 4, Title: "Past Edge", EventDate: weekAhead.Add(time.Minute), IsActive: true},
		},
	}

	stats := buildCharityStatistics(&model.Charity{ID: 1, Name: "Hope"}, data, StatisticsFilters{}, now)
	if len(stats.UpcomingEvents) != 2 {
		t.Fatalf("expected 2 upcoming events, got %+v", stats.UpcomingEvents)
	}
	if stats.UpcomingEvents[0].Title != "Starts Now" || stats.UpcomingEvents[1].Title != "Week Edge" {
		t.Errorf("window edges must be inclusive and date ascending: %+v", stats.UpcomingEvents)
	}
}

func TestBuildCharityStatisticsZeroRegistrations(t *testing.T) {
	charity := &model.Charity{ID: 1, Name: "Empty"}
	stats := buildCharityStatistics(charity, &charityData{}, StatisticsFilters{}, time.Now())
	if stats.AttendanceRate != 0 {
		t.Errorf("expected 0 attendance rate with no registrations, got %v", stats.AttendanceRate)
	}
}

func TestBuildProgramStatistics(t *testing.T) {
	program := &model.Program{ID: 3, Name: "Housing"}
	hopeBeneficiary := func(id uint) *model.Beneficiary {
		return &model.Beneficiary{ID: id, CharityID: 1, Charity: &model.Charity{ID: 1, Name: "Hope"}}
	}
	careBeneficiary := &model.Beneficiary{ID: 9, CharityID: 2, Charity: &model.Charity{ID: 2, Name: "Care"}}

	apps := []model.ProgramApplication{
		{ID: 1, BeneficiaryID: 1, Beneficiary: hopeBeneficiary(1), Status: model.ApplicationStatusPending},
		{ID: 2, BeneficiaryID: 1, Beneficiary: hopeBeneficiary(1), Status: model.ApplicationStatusApproved},
		{ID: 3, BeneficiaryID: 2, Beneficiary: hopeBeneficiary(2), Status: model.ApplicationStatusPending},
		{ID: 4, BeneficiaryID: 9, Beneficiary: careBeneficiary, Status: model.ApplicationStatusPending},
	}

	stats := buildProgramStatistics(program, apps)
	if stats.TotalApplications != 4 || stats.UniqueBeneficiaries != 3 {
		t.Errorf("totals wrong: %+v", stats)
	}
	if len(stats.BeneficiariesByCharity) != 2 {
		t.Fatalf("expected 2 charities, got %d", len(stats.BeneficiariesByCharity))
	}
	hope := stats.BeneficiariesByCharity[0]
	if hope.CharityName != "Hope" || hope.BeneficiaryCount != 2 || hope.ApplicationCount != 3 {
		t.Errorf("hope breakdown wrong: %+v", hope)
	}
}
