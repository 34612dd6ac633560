package cron

import (
	"fmt"
	"time"

	"github.com/sila-platform/sila-api/model"
)

// CloseExpiredPrograms moves ACTIVE programs whose application deadline
// has passed to CLOSED. New applications against a CLOSED program keep
// working through existing scopes; the status change only stops the
// program from listing as open.
func (m *CronManager) CloseExpiredPrograms() {
	jobName := "close_expired_programs"

	result := m.db.Model(&model.Program{}).
		Where("status = ? AND application_deadline IS NOT NULL AND application_deadline < ?",
			model.ProgramStatusActive, time.Now()).
		Update("status", model.ProgramStatusClosed)
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Closed %d expired programs", result.RowsAffected))
}

// DeactivatePastEvents clears the is_active flag on events whose date
// has passed, so they drop out of upcoming listings and dashboards.
func (m *CronManager) DeactivatePastEvents() {
	jobName := "deactivate_past_events"

	result := m.db.Model(&model.Event{}).
		Where("is_active = ? AND event_date < ?", true, time.Now()).
		Update("is_active", false)
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deactivated %d past events", result.RowsAffected))
}
