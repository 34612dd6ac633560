package access

import (
	"errors"
	"strings"

	"github.com/sila-platform/sila-api/model"
	"gorm.io/gorm"
)

// Errors returned by access predicates. Hidden records surface as 404
// so their existence is not leaked to readers who should not know about
// them; denied records surface as 403 for actors that may know they
// exist but cannot touch them.
var (
	ErrProgramHidden = errors.New("Program not found")
	ErrProgramDenied = errors.New("You don't have permission to access this program")
)

// OwnsProgram reports whether a ministry name claims a program, using
// the case-insensitive substring semantics of the ministry_owner field.
// A name that is a substring of another ministry's name produces a
// false positive; that fragility is inherent to name-based association
// and is deliberately not papered over here.
func OwnsProgram(ministryName, ministryOwner string) bool {
	if ministryName == "" || ministryOwner == "" {
		return false
	}
	return strings.Contains(strings.ToLower(ministryOwner), strings.ToLower(ministryName))
}

// none is a scope matching no rows.
func none(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

// CharityScope narrows a charity query to the actor's visible set:
// ministry sees all, a charity admin sees its own charity, everyone
// else sees nothing.
func CharityScope(id *Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case id.IsMinistry():
			return db
		case id.IsCharityAdmin():
			return db.Where("id = ?", id.Charity.ID)
		default:
			return none(db)
		}
	}
}

// BeneficiaryScope narrows a beneficiary query: ministry sees all, a
// charity admin sees its charity's beneficiaries, a beneficiary sees
// only its own profile.
func BeneficiaryScope(id *Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case id.IsMinistry():
			return db
		case id.IsCharityAdmin():
			return db.Where("charity_id = ?", id.Charity.ID)
		case id.IsBeneficiary():
			return db.Where("id = ?", id.Beneficiary.ID)
		default:
			return none(db)
		}
	}
}

// ProgramScope narrows a program query. A ministry actor sees programs
// whose owner name contains its display name; a ministry actor without
// a display name sees everything. All other actors see active programs
// only.
func ProgramScope(id *Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id.IsMinistry() {
			if name, err := id.MinistryName(); err == nil {
				return db.Where("ministry_owner ILIKE ?", "%"+name+"%")
			}
			return db
		}
		return db.Where("status = ?", model.ProgramStatusActive)
	}
}

// ProgramAccess evaluates direct retrieval of a single program. An
// unpublished program must look absent (ErrProgramHidden) to readers
// outside the owning ministry; a ministry reading another ministry's
// program is denied (ErrProgramDenied) instead.
func ProgramAccess(id *Identity, program *model.Program) error {
	if id.IsMinistry() {
		name, err := id.MinistryName()
		if err == nil && program.MinistryOwner != "" && !OwnsProgram(name, program.MinistryOwner) {
			return ErrProgramDenied
		}
		return nil
	}
	if program.Status != model.ProgramStatusActive {
		return ErrProgramHidden
	}
	return nil
}

// EventScope narrows an event query: ministry sees all, a charity admin
// sees its charity's events, a beneficiary sees its charity's active
// events, and anonymous readers see active events only.
func EventScope(id *Identity) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case id.IsMinistry():
			return db
		case id.IsCharityAdmin():
			return db.Where("charity_id = ?", id.Charity.ID)
		case id.IsBeneficiary():
			return db.Where("charity_id = ? AND is_active = ?", id.Beneficiary.CharityID, true)
		default:
			return db.Where("is_active = ?", true)
		}
	}
}

// RegistrationScope narrows a registration query for one event:
// ministry sees all of the event's registrations, a charity admin sees
// them when the event belongs to its charity, a beneficiary sees only
// its own.
func RegistrationScope(id *Identity, eventID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case id.IsMinistry():
			return db.Where("event_registrations.event_id = ?", eventID)
		case id.IsCharityAdmin():
			return db.
				Joins("JOIN events ON events.id = event_registrations.event_id").
				Where("event_registrations.event_id = ? AND events.charity_id = ?", eventID, id.Charity.ID)
		case id.IsBeneficiary():
			return db.Where("event_registrations.event_id = ? AND event_registrations.beneficiary_id = ?",
				eventID, id.Beneficiary.ID)
		default:
			return none(db)
		}
	}
}

// ApplicationScope narrows an application query for one program:
// ministry sees all of the program's applications, a charity admin sees
// those filed by its charity's beneficiaries, a beneficiary sees only
// its own.
func ApplicationScope(id *Identity, programID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case id.IsMinistry():
			return db.Where("program_applications.program_id = ?", programID)
		case id.IsCharityAdmin():
			return db.
				Joins("JOIN beneficiaries ON beneficiaries.id = program_applications.beneficiary_id").
				Where("program_applications.program_id = ? AND beneficiaries.charity_id = ?", programID, id.Charity.ID)
		case id.IsBeneficiary():
			return db.Where("program_applications.program_id = ? AND program_applications.beneficiary_id = ?",
				programID, id.Beneficiary.ID)
		default:
			return none(db)
		}
	}
}
