package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sila-platform/sila-api/model"
	"gorm.io/gorm"
)

// ExportService renders the statistics data sets as CSV attachments.
// Row building is kept in pure functions over already-loaded rows so
// the exact cell layout is testable without a database.
type ExportService struct {
	db *gorm.DB
}

// NewExportService creates a new export service
func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{
		db: db,
	}
}

const (
	exportDateTimeSeconds = "2006-01-02 15:04:05"
	exportDateTimeMinutes = "2006-01-02 15:04"
	exportFilenameDate    = "20060102"

	// reviewNotesMaxLen bounds notes cells in the ministry export.
	reviewNotesMaxLen = 100
)

// MinistryCSV renders the ministry export. export_type "applications"
// produces one row per application; anything else produces the summary.
func (s *ExportService) MinistryCSV(name, exportType string, f StatisticsFilters) (string, []byte, error) {
	programs, apps, err := loadMinistryData(s.db, name, f)
	if err != nil {
		return "", nil, err
	}

	var rows [][]string
	if exportType == "applications" {
		rows = ministryApplicationRows(apps)
	} else {
		rows = ministrySummaryRows(name, programs, apps)
	}

	data, err := encodeCSV(rows)
	if err != nil {
		return "", nil, err
	}
	return exportFilename("ministry_statistics", name, time.Now()), data, nil
}

// CharityCSV renders the charity export. export_type selects one of
// "all", "registrations", "events", "applications" or the summary.
func (s *ExportService) CharityCSV(charity *model.Charity, exportType string, f StatisticsFilters) (string, []byte, error) {
	data, err := loadCharityData(s.db, charity, f)
	if err != nil {
		return "", nil, err
	}

	var rows [][]string
	switch exportType {
	case "all":
		rows = charityFullRows(charity, data)
	case "registrations":
		rows = registrationRows(data.regs)
	case "events":
		rows = eventRows(data.events, data.allRegs)
	case "applications":
		rows = charityApplicationRows(data.apps)
	default:
		rows = charitySummaryRows(charity, data)
	}

	body, err := encodeCSV(rows)
	if err != nil {
		return "", nil, err
	}
	return exportFilename("charity_statistics", charity.Name, time.Now()), body, nil
}

func exportFilename(prefix, name string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.csv",
		prefix, strings.ReplaceAll(name, " ", "_"), now.Format(exportFilenameDate))
}

func encodeCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatTime(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// beneficiaryName renders the full name, empty when the relation did
// not load.
func beneficiaryName(b *model.Beneficiary) string {
	if b == nil || b.User == nil {
		return ""
	}
	return strings.TrimSpace(b.User.FirstName + " " + b.User.LastName)
}

func beneficiaryNationalID(b *model.Beneficiary) string {
	if b == nil {
		return ""
	}
	return b.NationalID
}

func appProgramStatus(a model.ProgramApplication) string {
	if a.Program == nil {
		return ""
	}
	return a.Program.Status
}

func appCharityName(a model.ProgramApplication) string {
	_, name := appCharity(a)
	return name
}

func truncateNotes(notes string) string {
	if len(notes) > reviewNotesMaxLen {
		return notes[:reviewNotesMaxLen]
	}
	return notes
}

func ministryApplicationRows(apps []model.ProgramApplication) [][]string {
	rows := [][]string{{
		"Application ID", "Program Name", "Program Status", "Beneficiary Name",
		"Charity Name", "Application Status", "Submitted Date", "Reviewed Date", "Review Notes",
	}}
	for _, a := range apps {
		submitted := a.SubmittedAt
		rows = append(rows, []string{
			strconv.FormatUint(uint64(a.ID), 10),
			appProgramName(a),
			appProgramStatus(a),
			beneficiaryName(a.Beneficiary),
			appCharityName(a),
			a.Status,
			formatTime(&submitted, exportDateTimeSeconds),
			formatTime(a.ReviewedAt, exportDateTimeSeconds),
			truncateNotes(a.ReviewNotes),
		})
	}
	return rows
}

func ministrySummaryRows(name string, programs []model.Program, apps []model.ProgramApplication) [][]string {
	var active int64
	for _, p := range programs {
		if p.Status == model.ProgramStatusActive {
			active++
		}
	}

	rows := [][]string{
		{"Statistic", "Value"},
		{"Ministry Name", name},
		{"Total Programs", strconv.Itoa(len(programs))},
		{"Active Programs", strconv.FormatInt(active, 10)},
		{"Total Applications", strconv.Itoa(len(apps))},
		{"Unique Beneficiaries", strconv.FormatInt(uniqueBeneficiaries(apps), 10)},
		{},
		{"Applications by Status"},
		{"Status", "Count"},
	}
	for _, sc := range countByStatus(apps) {
		rows = append(rows, []string{sc.Status, strconv.FormatInt(sc.Count, 10)})
	}

	rows = append(rows,
		[]string{},
		[]string{"Applications by Program"},
		[]string{"Program Name", "Total Applications", "Unique Beneficiaries"},
	)
	appsPerProgram := map[uint][]model.ProgramApplication{}
	for _, a := range apps {
		appsPerProgram[a.ProgramID] = append(appsPerProgram[a.ProgramID], a)
	}
	for _, p := range programs {
		own := appsPerProgram[p.ID]
		rows = append(rows, []string{
			p.Name,
			strconv.Itoa(len(own)),
			strconv.FormatInt(uniqueBeneficiaries(own), 10),
		})
	}
	return rows
}

func eventRows(events []model.Event, allRegs []model.EventRegistration) [][]string {
	regsPerEvent := map[uint]int64{}
	for _, r := range allRegs {
		regsPerEvent[r.EventID]++
	}

	rows := [][]string{{
		"Event ID", "Event Title", "Event Date", "Location", "City",
		"Max Capacity", "Current Registrations", "Available Spots", "Status",
	}}
	for _, e := range events {
		total := regsPerEvent[e.ID]
		available := ""
		if e.MaxCapacity != nil {
			spots := *e.MaxCapacity - int(total)
			if spots < 0 {
				spots = 0
			}
			available = strconv.Itoa(spots)
		}
		status := "Inactive"
		if e.IsActive {
			status = "Active"
		}
		date := e.EventDate
		rows = append(rows, []string{
			strconv.FormatUint(uint64(e.ID), 10),
			e.Title,
			formatTime(&date, exportDateTimeMinutes),
			e.Location,
			e.City,
			formatIntPtr(e.MaxCapacity),
			strconv.FormatInt(total, 10),
			available,
			status,
		})
	}
	return rows
}

func registrationRows(regs []model.EventRegistration) [][]string {
	rows := [][]string{{
		"Registration ID", "Event Title", "Event Date", "Event Location",
		"Beneficiary Name", "National ID", "Registered Date", "Attended", "Notes",
	}}
	for _, r := range regs {
		attended := "No"
		if r.Attended {
			attended = "Yes"
		}
		eventDate, location := "", ""
		if r.Event != nil {
			eventDate = r.Event.EventDate.Format(exportDateTimeMinutes)
			location = r.Event.Location
		}
		registered := r.RegisteredAt
		rows = append(rows, []string{
			strconv.FormatUint(uint64(r.ID), 10),
			regEventTitle(r),
			eventDate,
			location,
			beneficiaryName(r.Beneficiary),
			beneficiaryNationalID(r.Beneficiary),
			formatTime(&registered, exportDateTimeMinutes),
			attended,
			r.Notes,
		})
	}
	return rows
}

func charityApplicationRows(apps []model.ProgramApplication) [][]string {
	rows := [][]string{{
		"Application ID", "Program Name", "Beneficiary Name", "National ID",
		"Application Status", "Submitted Date", "Reviewed Date", "Review Notes",
	}}
	for _, a := range apps {
		submitted := a.SubmittedAt
		rows = append(rows, []string{
			strconv.FormatUint(uint64(a.ID), 10),
			appProgramName(a),
			beneficiaryName(a.Beneficiary),
			beneficiaryNationalID(a.Beneficiary),
			a.Status,
			formatTime(&submitted, exportDateTimeMinutes),
			formatTime(a.ReviewedAt, exportDateTimeMinutes),
			a.ReviewNotes,
		})
	}
	return rows
}

// charitySummaryCounts are the "Statistic, Value" rows shared by the
// summary and "all" exports.
func charitySummaryCounts(charity *model.Charity, data *charityData) [][]string {
	var activeBeneficiaries, activeEvents, attended int64
	for _, b := range data.beneficiaries {
		if b.IsActive {
			activeBeneficiaries++
		}
	}
	for _, e := range data.events {
		if e.IsActive {
			activeEvents++
		}
	}
	for _, r := range data.regs {
		if r.Attended {
			attended++
		}
	}
	return [][]string{
		{"Statistic", "Value"},
		{"Charity Name", charity.Name},
		{"Total Beneficiaries", strconv.Itoa(len(data.beneficiaries))},
		{"Active Beneficiaries", strconv.FormatInt(activeBeneficiaries, 10)},
		{"Total Events", strconv.Itoa(len(data.events))},
		{"Active Events", strconv.FormatInt(activeEvents, 10)},
		{"Total Registrations", strconv.Itoa(len(data.regs))},
		{"Attended Registrations", strconv.FormatInt(attended, 10)},
		{"Total Applications", strconv.Itoa(len(data.apps))},
	}
}

func charitySummaryRows(charity *model.Charity, data *charityData) [][]string {
	rows := charitySummaryCounts(charity, data)
	for _, sc := range countByStatus(data.apps) {
		rows = append(rows, []string{
			fmt.Sprintf("Applications - %s", sc.Status),
			strconv.FormatInt(sc.Count, 10),
		})
	}
	return rows
}

// charityFullRows assembles the "all" export: four labeled sections
// separated by blank lines.
func charityFullRows(charity *model.Charity, data *charityData) [][]string {
	rows := [][]string{
		{"=== CHARITY STATISTICS SUMMARY ==="},
		{},
	}
	rows = append(rows, charitySummaryCounts(charity, data)...)
	rows = append(rows, []string{}, []string{"Applications by Status"})
	for _, sc := range countByStatus(data.apps) {
		rows = append(rows, []string{sc.Status, strconv.FormatInt(sc.Count, 10)})
	}

	rows = append(rows, []string{}, []string{"=== EVENTS SUMMARY ==="})
	rows = append(rows, eventRows(data.events, data.allRegs)...)

	rows = append(rows, []string{}, []string{"=== EVENT REGISTRATIONS ==="})
	rows = append(rows, registrationRows(data.regs)...)

	rows = append(rows, []string{}, []string{"=== PROGRAM APPLICATIONS ==="})
	rows = append(rows, charityApplicationRows(data.apps)...)
	return rows
}
