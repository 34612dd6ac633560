package event

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/model"
	"github.com/sila-platform/sila-api/utils/access"
	"github.com/sila-platform/sila-api/utils/middleware"
	"github.com/sila-platform/sila-api/utils/query"
	"github.com/sila-platform/sila-api/utils/response"
	"github.com/sila-platform/sila-api/utils/validation"
	"gorm.io/gorm"
)

// EventHandler owns the event endpoints. Listing is public; a charity
// admin's events are always pinned to its own charity regardless of
// what the payload claims.
type EventHandler struct {
	db *gorm.DB
}

// NewEventHandler creates a new event handler
func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{
		db: db,
	}
}

// EventRequest is the create payload.
type EventRequest struct {
	Charity     uint      `json:"charity"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date" validate:"required"`
	Location    string    `json:"location"`
	City        string    `json:"city"`
	MaxCapacity *int      `json:"max_capacity"`
	IsActive    *bool     `json:"is_active"`
}

// EventUpdateRequest is the partial update payload. The charity link is
// not updatable.
type EventUpdateRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	EventDate   *time.Time `json:"event_date"`
	Location    *string    `json:"location"`
	City        *string    `json:"city"`
	MaxCapacity *int       `json:"max_capacity"`
	IsActive    *bool      `json:"is_active"`
}

// List handles GET /events. Anonymous callers see active events;
// beneficiaries see their charity's active events.
func (h *EventHandler) List(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)

	var events []model.Event
	err := h.db.Preload("Charity").Scopes(access.EventScope(identity)).Order("id").Find(&events).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load events")
	}
	return response.Success(c, events)
}

// Create handles POST /events.
func (h *EventHandler) Create(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	if !identity.IsMinistry() && !identity.IsCharityAdmin() {
		return response.Forbidden(c, "Only superusers and charity admins can create events")
	}

	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := validation.NewValidator().ValidateStruct(&req); err != nil {
		return response.ValidationErrors(c, validation.FormatValidationErrors(err))
	}

	charityID := req.Charity
	if identity.IsCharityAdmin() {
		charityID = identity.Charity.ID
	}
	if charityID == 0 {
		return response.BadRequest(c, "Charity is required")
	}

	event := model.Event{
		CharityID:   charityID,
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Location:    req.Location,
		City:        req.City,
		MaxCapacity: req.MaxCapacity,
		IsActive:    true,
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}
	if err := h.db.Create(&event).Error; err != nil {
		return response.InternalServerError(c, "Failed to create event")
	}
	return response.Created(c, event)
}

func (h *EventHandler) loadEvent(c *fiber.Ctx) (*model.Event, error) {
	id := query.ParseID(c.Params("event_id"))
	if id == 0 {
		return nil, response.NotFound(c, "")
	}
	var event model.Event
	if err := h.db.Preload("Charity").First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NotFound(c, "")
		}
		return nil, response.InternalServerError(c, "Failed to load event")
	}
	return &event, nil
}

// ownsEvent reports whether the actor may mutate the event.
func ownsEvent(identity *access.Identity, event *model.Event) bool {
	if identity.IsMinistry() {
		return true
	}
	return identity.IsCharityAdmin() && identity.Charity.ID == event.CharityID
}

// Get handles GET /events/:event_id.
func (h *EventHandler) Get(c *fiber.Ctx) error {
	event, err := h.loadEvent(c)
	if err != nil {
		return err
	}
	return response.Success(c, event)
}

// Update handles PUT/PATCH /events/:event_id.
func (h *EventHandler) Update(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	event, err := h.loadEvent(c)
	if err != nil {
		return err
	}
	if !ownsEvent(identity, event) {
		return response.Forbidden(c, "You don't have permission to update this event")
	}

	var req EventUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventDate != nil {
		event.EventDate = *req.EventDate
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.City != nil {
		event.City = *req.City
	}
	if req.MaxCapacity != nil {
		event.MaxCapacity = req.MaxCapacity
	}
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	if err := h.db.Save(event).Error; err != nil {
		return response.InternalServerError(c, "Failed to update event")
	}
	return response.Success(c, event)
}

// Delete handles DELETE /events/:event_id.
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	identity := middleware.GetIdentity(c)
	event, err := h.loadEvent(c)
	if err != nil {
		return err
	}
	if !ownsEvent(identity, event) {
		return response.Forbidden(c, "You don't have permission to delete this event")
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("event_id = ?", event.ID).Delete(&model.EventRegistration{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(event).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete event")
	}
	return response.NoContent(c)
}
