package services

import (
	"fmt"
	"strings"
	"testing"

	"health-to-earn-service/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAddress  = "NCZMZ4DQGQKYFAAAAAAAAAAAAAAAAAAAAAAAAAA"
	otherAddress = "NBTESTADDRESSAAAAAAAAAAAAAAAAAAAAAAAAAA"
)

// newTestDB opens a per-test in-memory database. The DSN is named after the
// test so GORM's connection pool shares one database, and migrations are
// opt-in so failure paths can leave a table missing on purpose.
func newTestDB(t *testing.T, migrate ...interface{}) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("migrate test db: %v", err)
		}
	}
	return db
}

func countRewards(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.ActivityReward{}).Count(&n).Error; err != nil {
		t.Fatalf("count rewards: %v", err)
	}
	return n
}
