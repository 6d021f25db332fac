package database

import (
	"fmt"
	"log"
	"time"

	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/internal/pkg/env"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var DB *gorm.DB

func SetupDatabase() {
	var err error
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{})
		if err == nil {
			if merr := Migrate(DB); merr != nil {
				panic(merr)
			}
			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

// Migrate runs the schema auto-migration and seeds the immutable catalog
// tables. It is shared with the sqlite-backed test setup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.HiringAuthority{},
		&models.Candidate{},
		&models.JobOrder{},
		&models.Placement{},
		&models.FeeAgreementStatusGroup{},
		&models.FeeAgreementStatus{},
		&models.FeeAgreementEventType{},
		&models.CompanyFeeAgreement{},
		&models.FeeAgreementEventLog{},
		&models.HelloSignEvent{},
		&models.DocusignEvent{},
		&models.Sendout{},
		&models.SendoutRecipient{},
		&models.SendGridEvent{},
		&models.EmailRecipientBlock{},
	); err != nil {
		return err
	}

	return SeedCatalogs(db)
}

// GetDB returns the global database handle.
func GetDB() *gorm.DB {
	return DB
}
