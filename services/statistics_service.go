package services

import (
	"fmt"
	"time"

	"github.com/sila-platform/sila-api/model"
	"gorm.io/gorm"
)

// StatisticsService computes dashboard aggregations for ministry and
// charity actors. Rows are loaded once per request, already narrowed to
// the actor's scope, and every metric is derived from the same filtered
// set so no metric can silently ignore an active filter.
type StatisticsService struct {
	db *gorm.DB
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(db *gorm.DB) *StatisticsService {
	return &StatisticsService{
		db: db,
	}
}

// StatisticsFilters carries the parsed filter parameters plus the raw
// values, which are echoed back verbatim in filters_applied.
type StatisticsFilters struct {
	ProgramID uint
	EventID   uint
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time

	RawProgramID string
	RawEventID   string
	RawStatus    string
	RawDateFrom  string
	RawDateTo    string
}

// StatusCount is a (status, count) aggregation pair.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// ProgramCount is a (program, count) aggregation pair.
type ProgramCount struct {
	ProgramID   uint   `json:"program_id"`
	ProgramName string `json:"program_name"`
	Count       int64  `json:"count"`
}

// CharityCount is a (charity, count) aggregation pair.
type CharityCount struct {
	CharityID   uint   `json:"charity_id"`
	CharityName string `json:"charity_name"`
	Count       int64  `json:"count"`
}

// EventCount is an (event, count) aggregation pair.
type EventCount struct {
	EventID    uint   `json:"event_id"`
	EventTitle string `json:"event_title"`
	Count      int64  `json:"count"`
}

// TimeSeriesPoint is one daily bucket of the trailing 30-day series.
type TimeSeriesPoint struct {
	Date  string `json:"date"` // 2006-01-02
	Day   string `json:"day"`  // 02/01, chart axis label
	Count int64  `json:"count"`
}

// ProgramSummary is the per-program block of the ministry dashboard.
type ProgramSummary struct {
	ID                  uint   `json:"id"`
	Name                string `json:"name"`
	Status              string `json:"status"`
	TotalApplications   int64  `json:"total_applications"`
	UniqueBeneficiaries int64  `json:"unique_beneficiaries"`
}

// MinistryFiltersEcho mirrors the request filters back to the client.
type MinistryFiltersEcho struct {
	ProgramID string `json:"program_id"`
	Status    string `json:"status"`
	DateFrom  string `json:"date_from"`
	DateTo    string `json:"date_to"`
}

// CharityFiltersEcho mirrors the request filters back to the client.
type CharityFiltersEcho struct {
	EventID  string `json:"event_id"`
	Status   string `json:"status"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

// MinistryStatistics is the ministry dashboard response.
type MinistryStatistics struct {
	MinistryName          string              `json:"ministry_name"`
	TotalPrograms         int64               `json:"total_programs"`
	ActivePrograms        int64               `json:"active_programs"`
	InactivePrograms      int64               `json:"inactive_programs"`
	ClosedPrograms        int64               `json:"closed_programs"`
	TotalApplications     int64               `json:"total_applications"`
	UniqueBeneficiaries   int64               `json:"unique_beneficiaries"`
	ApplicationsByStatus  []StatusCount       `json:"applications_by_status"`
	ProgramsSummary       []ProgramSummary    `json:"programs_summary"`
	ApplicationsByProgram []ProgramCount      `json:"applications_by_program"`
	ApplicationsOverTime  []TimeSeriesPoint   `json:"applications_over_time"`
	ApplicationsByCharity []CharityCount      `json:"applications_by_charity"`
	RecentApplications    int64               `json:"recent_applications"`
	AvgProcessingDays     *float64            `json:"avg_processing_days"`
	FiltersApplied        MinistryFiltersEcho `json:"filters_applied"`
}

// EventSummary is the per-event block of the charity dashboard.
type EventSummary struct {
	ID                   uint      `json:"id"`
	Title                string    `json:"title"`
	EventDate            time.Time `json:"event_date"`
	IsActive             bool      `json:"is_active"`
	MaxCapacity          *int      `json:"max_capacity"`
	CurrentRegistrations int64     `json:"current_registrations"`
	AvailableSpots       *int      `json:"available_spots"`
	TotalRegistrations   int64     `json:"total_registrations"`
	AttendedCount        int64     `json:"attended_count"`
}

// UpcomingEvent is one entry of the charity dashboard's 7-day lookahead.
type UpcomingEvent struct {
	ID                   uint      `json:"id"`
	Title                string    `json:"title"`
	EventDate            time.Time `json:"event_date"`
	Location             string    `json:"location"`
	CurrentRegistrations int64     `json:"current_registrations"`
	MaxCapacity          *int      `json:"max_capacity"`
}

// CharityStatistics is the charity dashboard response.
type CharityStatistics struct {
	CharityName           string             `json:"charity_name"`
	CharityID             uint               `json:"charity_id"`
	TotalBeneficiaries    int64              `json:"total_beneficiaries"`
	ActiveBeneficiaries   int64              `json:"active_beneficiaries"`
	InactiveBeneficiaries int64              `json:"inactive_beneficiaries"`
	TotalEvents           int64              `json:"total_events"`
	ActiveEvents          int64              `json:"active_events"`
	InactiveEvents        int64              `json:"inactive_events"`
	TotalRegistrations    int64              `json:"total_registrations"`
	AttendedRegistrations int64              `json:"attended_registrations"`
	AttendanceRate        float64            `json:"attendance_rate"`
	TotalApplications     int64              `json:"total_applications"`
	ApplicationsByStatus  []StatusCount      `json:"applications_by_status"`
	EventsSummary         []EventSummary     `json:"events_summary"`
	RegistrationsByEvent  []EventCount       `json:"registrations_by_event"`
	RegistrationsOverTime []TimeSeriesPoint  `json:"registrations_over_time"`
	ApplicationsByProgram []ProgramCount     `json:"applications_by_program"`
	UpcomingEvents        []UpcomingEvent    `json:"upcoming_events"`
	FiltersApplied        CharityFiltersEcho `json:"filters_applied"`
}

// CharityBreakdown is the per-charity block of program statistics.
type CharityBreakdown struct {
	CharityID        uint   `json:"charity_id"`
	CharityName      string `json:"charity_name"`
	BeneficiaryCount int64  `json:"beneficiary_count"`
	ApplicationCount int64  `json:"application_count"`
}

// ProgramStatistics is the single-program statistics response.
type ProgramStatistics struct {
	ProgramID              uint               `json:"program_id"`
	ProgramName            string             `json:"program_name"`
	TotalApplications      int64              `json:"total_applications"`
	UniqueBeneficiaries    int64              `json:"unique_beneficiaries"`
	ApplicationsByStatus   []StatusCount      `json:"applications_by_status"`
	BeneficiariesByCharity []CharityBreakdown `json:"beneficiaries_by_charity"`
}

// MinistryStatistics assembles the ministry dashboard for the programs
// claimed by the given ministry name.
func (s *StatisticsService) MinistryStatistics(name string, f StatisticsFilters) (*MinistryStatistics, error) {
	programs, apps, err := loadMinistryData(s.db, name, f)
	if err != nil {
		return nil, err
	}
	return buildMinistryStatistics(name, programs, apps, f, time.Now()), nil
}

// CharityStatistics assembles the charity dashboard.
func (s *StatisticsService) CharityStatistics(charity *model.Charity, f StatisticsFilters) (*CharityStatistics, error) {
	data, err := loadCharityData(s.db, charity, f)
	if err != nil {
		return nil, err
	}
	return buildCharityStatistics(charity, data, f, time.Now()), nil
}

// ProgramStatistics assembles statistics for a single program.
func (s *StatisticsService) ProgramStatistics(program *model.Program) (*ProgramStatistics, error) {
	var apps []model.ProgramApplication
	err := s.db.
		Preload("Beneficiary.Charity").
		Where("program_id = ?", program.ID).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}
	return buildProgramStatistics(program, apps), nil
}

// loadMinistryData fetches the ministry's programs and the applications
// filed against them, with the relations the metrics and exports need.
func loadMinistryData(db *gorm.DB, name string, f StatisticsFilters) ([]model.Program, []model.ProgramApplication, error) {
	query := db.Where("ministry_owner ILIKE ?", "%"+name+"%")
	if f.ProgramID != 0 {
		query = query.Where("id = ?", f.ProgramID)
	}
	var programs []model.Program
	if err := query.Order("id").Find(&programs).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load programs: %w", err)
	}

	ids := make([]uint, 0, len(programs))
	for _, p := range programs {
		ids = append(ids, p.ID)
	}

	var apps []model.ProgramApplication
	if len(ids) > 0 {
		err := db.
			Preload("Program").
			Preload("Beneficiary.User").
			Preload("Beneficiary.Charity").
			Where("program_id IN ?", ids).
			Order("id").
			Find(&apps).Error
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load applications: %w", err)
		}
	}

	return programs, filterApplications(apps, f), nil
}

// charityData is everything the charity dashboard and exports read.
// Registrations and applications arrive twice: the full set (per-event
// capacity figures ignore filters) and the filtered set every other
// metric uses.
type charityData struct {
	beneficiaries []model.Beneficiary
	events        []model.Event
	allRegs       []model.EventRegistration
	regs          []model.EventRegistration
	apps          []model.ProgramApplication
}

func loadCharityData(db *gorm.DB, charity *model.Charity, f StatisticsFilters) (*charityData, error) {
	data := &charityData{}

	if err := db.Where("charity_id = ?", charity.ID).Find(&data.beneficiaries).Error; err != nil {
		return nil, fmt.Errorf("failed to load beneficiaries: %w", err)
	}

	eventQuery := db.Where("charity_id = ?", charity.ID)
	if f.EventID != 0 {
		eventQuery = eventQuery.Where("id = ?", f.EventID)
	}
	if err := eventQuery.Order("id").Find(&data.events).Error; err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	err := db.
		Preload("Event").
		Preload("Beneficiary.User").
		Joins("JOIN events ON events.id = event_registrations.event_id").
		Where("events.charity_id = ?", charity.ID).
		Order("event_registrations.id").
		Find(&data.allRegs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}
	data.regs = filterRegistrations(data.allRegs, f)

	var apps []model.ProgramApplication
	err = db.
		Preload("Program").
		Preload("Beneficiary.User").
		Joins("JOIN beneficiaries ON beneficiaries.id = program_applications.beneficiary_id").
		Where("beneficiaries.charity_id = ?", charity.ID).
		Order("program_applications.id").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}
	data.apps = filterApplications(apps, f)

	return data, nil
}
