package tickets

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// The general-access capacity check is only safe if the count runs
// under a held row lock. Pin the generated SQL so the lock cannot
// silently disappear from the query again.
func TestLockShowEmitsRowLock(t *testing.T) {
	db, err := gorm.Open(postgres.Open("host=localhost user=stagepass dbname=stagepass"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		t.Fatalf("opening dry-run session: %v", err)
	}

	stmt := lockShow(db, uuid.New()).Statement
	sql := stmt.SQL.String()

	if !strings.Contains(sql, "FOR UPDATE") {
		t.Fatalf("FOR UPDATE missing from generated SQL: %s", sql)
	}
	if !strings.Contains(sql, `"shows"`) {
		t.Errorf("lock does not target the shows table: %s", sql)
	}
	if len(stmt.Vars) == 0 {
		t.Errorf("show id not bound as a query parameter: %s", sql)
	}
}
