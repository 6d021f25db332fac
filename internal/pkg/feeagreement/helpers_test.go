package feeagreement

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/josdesi/gpac-backend/app/models"
	"github.com/josdesi/gpac-backend/internal/pkg/database"
)

// newTestDB opens an in-memory sqlite database with the full schema and the
// seeded catalogs. The pool is pinned to one connection so every query sees
// the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestCatalog(t *testing.T, db *gorm.DB) *Catalog {
	t.Helper()
	c := &Catalog{}
	require.NoError(t, c.Load(db))
	return c
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewService(NewRepository(db), newTestCatalog(t, db)), db
}

// seedAgreement creates a minimal company, hiring authority and agreement
// linked to a signature request id.
func seedAgreement(t *testing.T, db *gorm.DB, sigReqID string) *models.CompanyFeeAgreement {
	t.Helper()
	company := &models.Company{Name: "Acme Industrial", RecruiterID: 1}
	require.NoError(t, db.Create(company).Error)
	ha := &models.HiringAuthority{
		CompanyID: company.ID,
		FirstName: "Dana",
		LastName:  "Whitfield",
		Email:     "dana.whitfield@acme.example",
	}
	require.NoError(t, db.Create(ha).Error)

	fa := &models.CompanyFeeAgreement{
		UUID:               "uuid-" + sigReqID,
		CompanyID:          company.ID,
		HiringAuthorityID:  ha.ID,
		CreatorID:          1,
		FeePercent:         25,
		GuaranteeDays:      30,
		StatusID:           models.FeeAgreementStatusUnsigned,
		SignatureProvider:  models.SignatureProviderHelloSign,
		SignatureRequestID: sigReqID,
	}
	require.NoError(t, db.Create(fa).Error)
	return fa
}
