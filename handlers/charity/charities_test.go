package charity

import (
	"strings"
	"testing"

	"github.com/sila-platform/sila-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/utils/tests"
)

// dryRunDB builds a gorm session that renders SQL without executing it
// and records every statement the delete callbacks produce.
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
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
	return db, &statements
}

func TestPurgeCharityRemovesRowsOutright(t *testing.T) {
	db, statements := dryRunDB(t)

	charity := &model.Charity{ID: 3, Name: "Hope", RegistrationNumber: "REG-3"}
	if err := purgeCharity(db, charity); err != nil {
		t.Fatal(err)
	}

	if len(*statements) == 0 {
		t.Fatal("no delete statements recorded")
	}
	// a soft delete would render as UPDATE ... SET deleted_at and keep
	// the unique registration_number reserved for a dead row
	for _, sql := range *statements {
		if !strings.HasPrefix(sql, "DELETE") {
			t.Errorf("cascade must hard-delete, got %q", sql)
		}
	}
}
