package access

import (
	"errors"

	"github.com/sila-platform/sila-api/model"
	"gorm.io/gorm"
)

// Role is the resolved actor role for a request.
type Role string

const (
	RoleMinistry     Role = "MINISTRY"
	RoleCharityAdmin Role = "CHARITY_ADMIN"
	RoleBeneficiary  Role = "BENEFICIARY"
	RoleAnonymous    Role = "ANONYMOUS"
)

// ErrMinistryNameNotFound blocks ministry-scoped writes and statistics
// when the ministry actor has no display name set.
var ErrMinistryNameNotFound = errors.New("ministry name not found")

// Identity is the resolved actor for a request: the account plus the
// record that grants it its role. It is built once per request by the
// auth middleware and passed down to scope filters and mutation guards,
// so role derivation never happens ad hoc at access points.
type Identity struct {
	User        *model.User
	Role        Role
	Charity     *model.Charity     // set when Role == RoleCharityAdmin
	Beneficiary *model.Beneficiary // set when Role == RoleBeneficiary
}

// Anonymous is the identity of an unauthenticated request.
func Anonymous() *Identity {
	return &Identity{Role: RoleAnonymous}
}

// Resolve loads the user's one-to-one links and classifies it. There is
// no ministry entity: any superuser account is treated as "the
// ministry", identified only by its display name. Replacing that with a
// real ministry registry only requires changing this function and
// MinistryName.
func Resolve(db *gorm.DB, user *model.User) (*Identity, error) {
	if user == nil {
		return Anonymous(), nil
	}

	var charity *model.Charity
	var found model.Charity
	err := db.Where("admin_user_id = ?", user.ID).First(&found).Error
	if err == nil {
		charity = &found
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var beneficiary *model.Beneficiary
	var profile model.Beneficiary
	err = db.Where("user_id = ?", user.ID).First(&profile).Error
	if err == nil {
		beneficiary = &profile
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return Classify(user, charity, beneficiary), nil
}

// Classify applies the first-match-wins role ordering:
// Ministry > CharityAdmin > Beneficiary > Anonymous. A superuser that
// also carries a charity-admin link is still Ministry.
func Classify(user *model.User, charity *model.Charity, beneficiary *model.Beneficiary) *Identity {
	if user == nil {
		return Anonymous()
	}
	identity := &Identity{User: user, Charity: charity, Beneficiary: beneficiary}
	switch {
	case user.IsSuperuser:
		identity.Role = RoleMinistry
	case charity != nil:
		identity.Role = RoleCharityAdmin
	case beneficiary != nil:
		identity.Role = RoleBeneficiary
	default:
		identity.Role = RoleAnonymous
	}
	return identity
}

// IsAuthenticated reports whether the request carries an account at all.
func (id *Identity) IsAuthenticated() bool {
	return id != nil && id.User != nil
}

// IsMinistry reports whether the actor is a ministry administrator.
func (id *Identity) IsMinistry() bool {
	return id != nil && id.Role == RoleMinistry
}

// IsCharityAdmin reports whether the actor administers a charity.
func (id *Identity) IsCharityAdmin() bool {
	return id != nil && id.Role == RoleCharityAdmin && id.Charity != nil
}

// IsBeneficiary reports whether the actor has a beneficiary profile.
func (id *Identity) IsBeneficiary() bool {
	return id != nil && id.Role == RoleBeneficiary && id.Beneficiary != nil
}

// MinistryName returns the ministry identity derived from the account's
// display name. The name is human-entered, so its absence is a
// legitimate error state rather than a programming bug.
func (id *Identity) MinistryName() (string, error) {
	if !id.IsAuthenticated() || id.User.FirstName == "" {
		return "", ErrMinistryNameNotFound
	}
	return id.User.FirstName, nil
}
