package beneficiary

import (
	"strings"
	"testing"

	"github.com/sila-platform/sila-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

func TestPurgeBeneficiaryRemovesRowsOutright(t *testing.T) {
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	var statements []string
	err = db.Callback().Delete().After("gorm:delete").Register("record_delete_sql", func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	})
	if err != nil {
		t.Fatal(err)
	}

	beneficiary := &model.Beneficiary{ID: 9, UserID: 4, NationalID: "1234567890"}
	if err := purgeBeneficiary(db, beneficiary); err != nil {
		t.Fatal(err)
	}

	if len(statements) != 3 {
		t.Fatalf("expected applications, registrations and profile deletes, got %d statements", len(statements))
	}
	// a soft delete would render as UPDATE ... SET deleted_at and keep
	// the unique national_id and user_id reserved for a dead row
	for _, sql := range statements {
		if !strings.HasPrefix(sql, "DELETE") {
			t.Errorf("cascade must hard-delete, got %q", sql)
		}
	}
}
