package statistics

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/services"
	"github.com/sila-platform/sila-api/utils/query"
	"gorm.io/gorm"
)

// StatisticsHandler owns the dashboard and CSV export endpoints.
type StatisticsHandler struct {
	db      *gorm.DB
	stats   *services.StatisticsService
	exports *services.ExportService
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(db *gorm.DB) *StatisticsHandler {
	return &StatisticsHandler{
		db:      db,
		stats:   services.NewStatisticsService(db),
		exports: services.NewExportService(db),
	}
}

// flexibleID decodes an id that clients send either as a JSON number
// or as a string.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if string(b) == "null" {
		*f = ""
		return nil
	}
	*f = flexibleID(b)
	return nil
}

// ExportRequest is the shared POST body of the export endpoints.
type ExportRequest struct {
	ProgramID  flexibleID `json:"program_id"`
	EventID    flexibleID `json:"event_id"`
	CharityID  flexibleID `json:"charity_id"`
	Status     string     `json:"status"`
	DateFrom   string     `json:"date_from"`
	DateTo     string     `json:"date_to"`
	ExportType string     `json:"export_type"`
}

// filtersFromQuery builds filters from GET query parameters.
func filtersFromQuery(c *fiber.Ctx) services.StatisticsFilters {
	return buildFilters(
		c.Query("program_id"), c.Query("event_id"), c.Query("status"),
		c.Query("date_from"), c.Query("date_to"),
	)
}

// filtersFromBody builds filters from a POST export body.
func filtersFromBody(req *ExportRequest) services.StatisticsFilters {
	return buildFilters(
		string(req.ProgramID), string(req.EventID), req.Status,
		req.DateFrom, req.DateTo,
	)
}

func buildFilters(programID, eventID, status, dateFrom, dateTo string) services.StatisticsFilters {
	return services.StatisticsFilters{
		ProgramID: query.ParseID(programID),
		EventID:   query.ParseID(eventID),
		Status:    status,
		DateFrom:  query.ParseDate(dateFrom),
		DateTo:    query.ParseDate(dateTo),

		RawProgramID: programID,
		RawEventID:   eventID,
		RawStatus:    status,
		RawDateFrom:  dateFrom,
		RawDateTo:    dateTo,
	}
}

// sendCSV writes a CSV body as a download attachment.
func sendCSV(c *fiber.Ctx, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(data)
}
