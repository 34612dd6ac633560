package access

import (
	"errors"
	"testing"

	"github.com/sila-platform/sila-api/model"
)

func TestClassifyOrdering(t *testing.T) {
	superuser := &model.User{ID: 1, IsSuperuser: true, FirstName: "Ministry of Health"}
	plain := &model.User{ID: 2}
	charity := &model.Charity{ID: 10, Name: "Hope"}
	beneficiary := &model.Beneficiary{ID: 20, CharityID: 10}

	cases := []struct {
		name        string
		user        *model.User
		charity     *model.Charity
		beneficiary *model.Beneficiary
		want        Role
	}{
		{"superuser wins over charity link", superuser, charity, nil, RoleMinistry},
		{"superuser wins over beneficiary link", superuser, nil, beneficiary, RoleMinistry},
		{"charity admin", plain, charity, nil, RoleCharityAdmin},
		{"charity link wins over beneficiary link", plain, charity, beneficiary, RoleCharityAdmin},
		{"beneficiary", plain, nil, beneficiary, RoleBeneficiary},
		{"plain account has no role", plain, nil, nil, RoleAnonymous},
		{"nil user", nil, charity, beneficiary, RoleAnonymous},
	}
	for _, c := range cases {
		got := Classify(c.user, c.charity, c.beneficiary)
		if got.Role != c.want {
			t.Errorf("%s: got %s, want %s", c.name, got.Role, c.want)
		}
	}
}

func TestIdentityPredicates(t *testing.T) {
	ministry := Classify(&model.User{ID: 1, IsSuperuser: true}, nil, nil)
	if !ministry.IsMinistry() || ministry.IsCharityAdmin() || ministry.IsBeneficiary() {
		t.Error("ministry predicates wrong")
	}

	admin := Classify(&model.User{ID: 2}, &model.Charity{ID: 1}, nil)
	if !admin.IsCharityAdmin() || admin.IsMinistry() {
		t.Error("charity admin predicates wrong")
	}

	anon := Anonymous()
	if anon.IsAuthenticated() || anon.IsMinistry() || anon.IsCharityAdmin() || anon.IsBeneficiary() {
		t.Error("anonymous identity must fail every predicate")
	}

	var nilID *Identity
	if nilID.IsAuthenticated() || nilID.IsMinistry() {
		t.Error("nil identity must fail every predicate")
	}
}

func TestMinistryName(t *testing.T) {
	named := Classify(&model.User{ID: 1, IsSuperuser: true, FirstName: "Ministry of Health"}, nil, nil)
	name, err := named.MinistryName()
	if err != nil || name != "Ministry of Health" {
		t.Errorf("got %q, %v", name, err)
	}

	unnamed := Classify(&model.User{ID: 2, IsSuperuser: true}, nil, nil)
	if _, err := unnamed.MinistryName(); !errors.Is(err, ErrMinistryNameNotFound) {
		t.Errorf("expected ErrMinistryNameNotFound, got %v", err)
	}

	if _, err := Anonymous().MinistryName(); !errors.Is(err, ErrMinistryNameNotFound) {
		t.Errorf("expected ErrMinistryNameNotFound for anonymous, got %v", err)
	}
}
