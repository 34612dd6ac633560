package services

import (
	"math"
	"sort"
	"time"

	"github.com/sila-platform/sila-api/model"
)

// timeSeriesDays is the window of the "over time" charts.
const timeSeriesDays = 30

// recentWindow bounds the recent_applications counter.
const recentWindow = 7 * 24 * time.Hour

// Relations are preloaded pointers; a row whose relation failed to load
// still gets counted, just with blank display fields.

func appProgramName(a model.ProgramApplication) string {
	if a.Program == nil {
		return ""
	}
	return a.Program.Name
}

func appCharity(a model.ProgramApplication) (uint, string) {
	if a.Beneficiary == nil {
		return 0, ""
	}
	if a.Beneficiary.Charity == nil {
		return a.Beneficiary.CharityID, ""
	}
	return a.Beneficiary.CharityID, a.Beneficiary.Charity.Name
}

func regEventTitle(r model.EventRegistration) string {
	if r.Event == nil {
		return ""
	}
	return r.Event.Title
}

// dayOf truncates a timestamp to its calendar day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// withinDayRange checks a timestamp against inclusive day bounds.
func withinDayRange(t time.Time, from, to *time.Time) bool {
	day := dayOf(t)
	if from != nil && day.Before(dayOf(*from)) {
		return false
	}
	if to != nil && day.After(dayOf(*to)) {
		return false
	}
	return true
}

// filterApplications applies the status and date filters in memory so
// every metric sees the same set.
func filterApplications(apps []model.ProgramApplication, f StatisticsFilters) []model.ProgramApplication {
	out := make([]model.ProgramApplication, 0, len(apps))
	for _, a := range apps {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if !withinDayRange(a.SubmittedAt, f.DateFrom, f.DateTo) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// filterRegistrations applies the event and date filters in memory.
func filterRegistrations(regs []model.EventRegistration, f StatisticsFilters) []model.EventRegistration {
	out := make([]model.EventRegistration, 0, len(regs))
	for _, r := range regs {
		if f.EventID != 0 && r.EventID != f.EventID {
			continue
		}
		if !withinDayRange(r.RegisteredAt, f.DateFrom, f.DateTo) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// countByStatus groups applications by status, ordered by status name.
func countByStatus(apps []model.ProgramApplication) []StatusCount {
	counts := map[string]int64{}
	for _, a := range apps {
		counts[a.Status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		out = append(out, StatusCount{Status: status, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}

// countByProgram groups applications by program, busiest first.
func countByProgram(apps []model.ProgramApplication) []ProgramCount {
	counts := map[uint]*ProgramCount{}
	for _, a := range apps {
		entry, ok := counts[a.ProgramID]
		if !ok {
			entry = &ProgramCount{ProgramID: a.ProgramID, ProgramName: appProgramName(a)}
			counts[a.ProgramID] = entry
		}
		entry.Count++
	}
	out := make([]ProgramCount, 0, len(counts))
	for _, entry := range counts {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ProgramName < out[j].ProgramName
	})
	return out
}

// countByCharity groups applications by the applicant's charity,
// busiest first, capped at limit when limit > 0.
func countByCharity(apps []model.ProgramApplication, limit int) []CharityCount {
	counts := map[uint]*CharityCount{}
	for _, a := range apps {
		id, name := appCharity(a)
		entry, ok := counts[id]
		if !ok {
			entry = &CharityCount{CharityID: id, CharityName: name}
			counts[id] = entry
		}
		entry.Count++
	}
	out := make([]CharityCount, 0, len(counts))
	for _, entry := range counts {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].CharityName < out[j].CharityName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// countByEvent groups registrations by event, busiest first.
func countByEvent(regs []model.EventRegistration) []EventCount {
	counts := map[uint]*EventCount{}
	for _, r := range regs {
		entry, ok := counts[r.EventID]
		if !ok {
			entry = &EventCount{EventID: r.EventID, EventTitle: regEventTitle(r)}
			counts[r.EventID] = entry
		}
		entry.Count++
	}
	out := make([]EventCount, 0, len(counts))
	for _, entry := range counts {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].EventTitle < out[j].EventTitle
	})
	return out
}

// buildTimeSeries counts timestamps per calendar day over the trailing
// 30 days. Every day gets a bucket, even empty ones, and the last
// bucket is today.
func buildTimeSeries(times []time.Time, now time.Time) []TimeSeriesPoint {
	perDay := map[time.Time]int64{}
	for _, t := range times {
		perDay[dayOf(t)]++
	}
	today := dayOf(now)
	out := make([]TimeSeriesPoint, 0, timeSeriesDays)
	for i := timeSeriesDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		out = append(out, TimeSeriesPoint{
			Date:  day.Format("2006-01-02"),
			Day:   day.Format("02/01"),
			Count: perDay[day],
		})
	}
	return out
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// avgProcessingDays averages whole-day turnaround over reviewed
// applications. Nil when nothing has been reviewed yet.
func avgProcessingDays(apps []model.ProgramApplication) *float64 {
	var total, reviewed int64
	for _, a := range apps {
		if a.ReviewedAt == nil {
			continue
		}
		total += int64(a.ReviewedAt.Sub(a.SubmittedAt).Hours() / 24)
		reviewed++
	}
	if reviewed == 0 {
		return nil
	}
	avg := round1(float64(total) / float64(reviewed))
	return &avg
}

// countRecent counts applications submitted inside the recent window.
func countRecent(apps []model.ProgramApplication, now time.Time) int64 {
	cutoff := now.Add(-recentWindow)
	var n int64
	for _, a := range apps {
		if !a.SubmittedAt.Before(cutoff) {
			n++
		}
	}
	return n
}

// uniqueBeneficiaries counts distinct applicants.
func uniqueBeneficiaries(apps []model.ProgramApplication) int64 {
	seen := map[uint]struct{}{}
	for _, a := range apps {
		seen[a.BeneficiaryID] = struct{}{}
	}
	return int64(len(seen))
}

func buildMinistryStatistics(name string, programs []model.Program, apps []model.ProgramApplication, f StatisticsFilters, now time.Time) *MinistryStatistics {
	stats := &MinistryStatistics{
		MinistryName:      name,
		TotalPrograms:     int64(len(programs)),
		TotalApplications: int64(len(apps)),
		FiltersApplied: MinistryFiltersEcho{
			ProgramID: f.RawProgramID,
			Status:    f.RawStatus,
			DateFrom:  f.RawDateFrom,
			DateTo:    f.RawDateTo,
		},
	}

	appsPerProgram := map[uint][]model.ProgramApplication{}
	for _, a := range apps {
		appsPerProgram[a.ProgramID] = append(appsPerProgram[a.ProgramID], a)
	}

	for _, p := range programs {
		switch p.Status {
		case model.ProgramStatusActive:
			stats.ActivePrograms++
		case model.ProgramStatusInactive:
			stats.InactivePrograms++
		case model.ProgramStatusClosed:
			stats.ClosedPrograms++
		}
		own := appsPerProgram[p.ID]
		stats.ProgramsSummary = append(stats.ProgramsSummary, ProgramSummary{
			ID:                  p.ID,
			Name:                p.Name,
			Status:              p.Status,
			TotalApplications:   int64(len(own)),
			UniqueBeneficiaries: uniqueBeneficiaries(own),
		})
	}

	times := make([]time.Time, 0, len(apps))
	for _, a := range apps {
		times = append(times, a.SubmittedAt)
	}

	stats.UniqueBeneficiaries = uniqueBeneficiaries(apps)
	stats.ApplicationsByStatus = countByStatus(apps)
	stats.ApplicationsByProgram = countByProgram(apps)
	stats.ApplicationsOverTime = buildTimeSeries(times, now)
	stats.ApplicationsByCharity = countByCharity(apps, 10)
	stats.RecentApplications = countRecent(apps, now)
	stats.AvgProcessingDays = avgProcessingDays(apps)
	return stats
}

func buildCharityStatistics(charity *model.Charity, data *charityData, f StatisticsFilters, now time.Time) *CharityStatistics {
	stats := &CharityStatistics{
		CharityName:        charity.Name,
		CharityID:          charity.ID,
		TotalBeneficiaries: int64(len(data.beneficiaries)),
		TotalEvents:        int64(len(data.events)),
		TotalRegistrations: int64(len(data.regs)),
		TotalApplications:  int64(len(data.apps)),
		FiltersApplied: CharityFiltersEcho{
			EventID:  f.RawEventID,
			Status:   f.RawStatus,
			DateFrom: f.RawDateFrom,
			DateTo:   f.RawDateTo,
		},
	}

	for _, b := range data.beneficiaries {
		if b.IsActive {
			stats.ActiveBeneficiaries++
		} else {
			stats.InactiveBeneficiaries++
		}
	}

	// Per-event capacity figures deliberately ignore the date filters;
	// a spot taken last month is still taken.
	regsPerEvent := map[uint]int64{}
	attendedPerEvent := map[uint]int64{}
	for _, r := range data.allRegs {
		regsPerEvent[r.EventID]++
		if r.Attended {
			attendedPerEvent[r.EventID]++
		}
	}

	weekAhead := now.Add(7 * 24 * time.Hour)
	for _, e := range data.events {
		if e.IsActive {
			stats.ActiveEvents++
		} else {
			stats.InactiveEvents++
		}
		current := regsPerEvent[e.ID]
		var available *int
		if e.MaxCapacity != nil {
			spots := *e.MaxCapacity - int(current)
			if spots < 0 {
				spots = 0
			}
			available = &spots
		}
		stats.EventsSummary = append(stats.EventsSummary, EventSummary{
			ID:                   e.ID,
			Title:                e.Title,
			EventDate:            e.EventDate,
			IsActive:             e.IsActive,
			MaxCapacity:          e.MaxCapacity,
			CurrentRegistrations: current,
			AvailableSpots:       available,
			TotalRegistrations:   current,
			AttendedCount:        attendedPerEvent[e.ID],
		})
		// both window edges are inclusive
		if e.IsActive && !e.EventDate.Before(now) && !e.EventDate.After(weekAhead) {
			stats.UpcomingEvents = append(stats.UpcomingEvents, UpcomingEvent{
				ID:                   e.ID,
				Title:                e.Title,
				EventDate:            e.EventDate,
				Location:             e.Location,
				CurrentRegistrations: current,
				MaxCapacity:          e.MaxCapacity,
			})
		}
	}

	sort.Slice(stats.UpcomingEvents, func(i, j int) bool {
		return stats.UpcomingEvents[i].EventDate.Before(stats.UpcomingEvents[j].EventDate)
	})
	if len(stats.UpcomingEvents) > 5 {
		stats.UpcomingEvents = stats.UpcomingEvents[:5]
	}

	for _, r := range data.regs {
		if r.Attended {
			stats.AttendedRegistrations++
		}
	}
	if stats.TotalRegistrations > 0 {
		stats.AttendanceRate = round1(float64(stats.AttendedRegistrations) / float64(stats.TotalRegistrations) * 100)
	}

	times := make([]time.Time, 0, len(data.regs))
	for _, r := range data.regs {
		times = append(times, r.RegisteredAt)
	}

	stats.ApplicationsByStatus = countByStatus(data.apps)
	stats.RegistrationsByEvent = countByEvent(data.regs)
	stats.RegistrationsOverTime = buildTimeSeries(times, now)
	stats.ApplicationsByProgram = countByProgram(data.apps)
	return stats
}

func buildProgramStatistics(program *model.Program, apps []model.ProgramApplication) *ProgramStatistics {
	stats := &ProgramStatistics{
		ProgramID:            program.ID,
		ProgramName:          program.Name,
		TotalApplications:    int64(len(apps)),
		UniqueBeneficiaries:  uniqueBeneficiaries(apps),
		ApplicationsByStatus: countByStatus(apps),
	}

	perCharity := map[uint]*CharityBreakdown{}
	for _, a := range apps {
		id, name := appCharity(a)
		entry, ok := perCharity[id]
		if !ok {
			entry = &CharityBreakdown{CharityID: id, CharityName: name}
			perCharity[id] = entry
		}
		entry.ApplicationCount++
	}
	beneficiariesSeen := map[uint]map[uint]struct{}{}
	for _, a := range apps {
		id, _ := appCharity(a)
		if beneficiariesSeen[id] == nil {
			beneficiariesSeen[id] = map[uint]struct{}{}
		}
		beneficiariesSeen[id][a.BeneficiaryID] = struct{}{}
	}
	for id, entry := range perCharity {
		entry.BeneficiaryCount = int64(len(beneficiariesSeen[id]))
	}
	out := make([]CharityBreakdown, 0, len(perCharity))
	for _, entry := range perCharity {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BeneficiaryCount != out[j].BeneficiaryCount {
			return out[i].BeneficiaryCount > out[j].BeneficiaryCount
		}
		return out[i].CharityName < out[j].CharityName
	})
	stats.BeneficiariesByCharity = out
	return stats
}
