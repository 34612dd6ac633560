package event

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/model"
	"github.com/sila-platform/sila-api/utils/access"
	"github.com/sila-platform/sila-api/utils/middleware"
	"github.com/sila-platform/sila-api/utils/query"
	"github.com/sila-platform/sila-api/utils/response"
	"gorm.io/gorm"
)

// RegistrationRequest is the registration payload.
type RegistrationRequest struct {
	Notes string `json:"notes"`
}

// ListRegistrations handles GET /events/:event_id/registrations.
func (h *EventHandler) ListRegistrations(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	eventID := query.ParseID(c.Params("event_id"))

	var regs []model.EventRegistration
	err := h.db.Scopes(access.RegistrationScope(identity, eventID)).Order("event_registrations.id").Find(&regs).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load registrations")
	}
	return response.Success(c, regs)
}

// Register handles POST /events/:event_id/registrations. The capacity
// check is a best-effort count, not a reservation; the duplicate
// pre-check is backed by the unique (beneficiary, event) index.
func (h *EventHandler) Register(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsBeneficiary() {
		return response.Forbidden(c, "Only beneficiaries can register for events")
	}

	eventID := query.ParseID(c.Params("event_id"))
	var event model.Event
	if err := h.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "")
		}
		return response.InternalServerError(c, "Failed to load event")
	}

	beneficiary := identity.Beneficiary

	var count int64
	err := h.db.Model(&model.EventRegistration{}).
		Where("beneficiary_id = ? AND event_id = ?", beneficiary.ID, event.ID).
		Count(&count).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to check existing registrations")
	}
	if count > 0 {
		return response.BadRequest(c, "You are already registered for this event")
	}

	if event.MaxCapacity != nil {
		var current int64
		if err := h.db.Model(&model.EventRegistration{}).Where("event_id = ?", event.ID).Count(&current).Error; err != nil {
			return response.InternalServerError(c, "Failed to check event capacity")
		}
		if current >= int64(*event.MaxCapacity) {
			return response.BadRequest(c, "Event is full")
		}
	}

	var req RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	registration := model.EventRegistration{
		BeneficiaryID: beneficiary.ID,
		EventID:       event.ID,
		Notes:         req.Notes,
	}
	if err := h.db.Create(&registration).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.BadRequest(c, "You are already registered for this event")
		}
		return response.InternalServerError(c, "Failed to create registration")
	}
	return response.Created(c, registration)
}

// Unregister handles DELETE /events/:event_id/registrations/:registration_id.
// Allowed to the ministry and to the owning beneficiary.
func (h *EventHandler) Unregister(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	eventID := query.ParseID(c.Params("event_id"))
	registrationID := query.ParseID(c.Params("registration_id"))

	var registration model.EventRegistration
	err := h.db.Where("id = ? AND event_id = ?", registrationID, eventID).First(&registration).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Not found.")
		}
		return response.InternalServerError(c, "Failed to load registration")
	}

	isOwn := identity.IsBeneficiary() && identity.Beneficiary.ID == registration.BeneficiaryID
	if !identity.IsMinistry() && !isOwn {
		return response.Forbidden(c, "You don't have permission to delete this registration")
	}

	if err := h.db.Delete(&registration).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete registration")
	}
	return response.NoContent(c)
}
