package feeagreement

import (
	"errors"

	"github.com/josdesi/gpac-backend/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the fee agreement service.
type Repository interface {
	Transaction(fn func(Repository) error) error
	GetAgreementForUpdate(id uint) (*models.CompanyFeeAgreement, error)
	GetAgreementBySignatureRequestID(signatureRequestID string) (*models.CompanyFeeAgreement, error)
	SaveAgreement(fa *models.CompanyFeeAgreement) error
	CreateHelloSignEventIfNotExists(event *models.HelloSignEvent) (bool, error)
	CreateDocusignEventIfNotExists(event *models.DocusignEvent) (bool, error)
	MarkDocusignEventProcessed(eventID string) error
	GetHelloSignEvent(eventID string) (*models.HelloSignEvent, error)
	GetDocusignEvent(eventID string) (*models.DocusignEvent, error)
	ListUnprocessedDocusignEvents(limit int) ([]models.DocusignEvent, error)
	AppendEventLog(entry *models.FeeAgreementEventLog) error
	HasEventLogForProviderEvent(provider Provider, eventID string) (bool, error)
	ListEventLog(feeAgreementID uint) ([]models.FeeAgreementEventLog, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a fee agreement repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Transaction runs fn inside a database transaction; the callback receives a
// repository bound to the transaction handle.
func (r *gormRepository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

// GetAgreementForUpdate fetches an agreement holding a row lock for the rest
// of the surrounding transaction, serializing concurrent webhook deliveries
// for the same agreement. SQLite (tests) serializes writes on its own and has
// no FOR UPDATE syntax.
func (r *gormRepository) GetAgreementForUpdate(id uint) (*models.CompanyFeeAgreement, error) {
	tx := r.db
	if tx.Dialector.Name() == "mysql" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var fa models.CompanyFeeAgreement
	if err := tx.First(&fa, id).Error; err != nil {
		return nil, err
	}
	return &fa, nil
}

func (r *gormRepository) GetAgreementBySignatureRequestID(signatureRequestID string) (*models.CompanyFeeAgreement, error) {
	var fa models.CompanyFeeAgreement
	err := r.db.Where("signature_request_id = ?", signatureRequestID).First(&fa).Error
	if err != nil {
		return nil, err
	}
	return &fa, nil
}

func (r *gormRepository) SaveAgreement(fa *models.CompanyFeeAgreement) error {
	return r.db.Save(fa).Error
}

func (r *gormRepository) CreateHelloSignEventIfNotExists(event *models.HelloSignEvent) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) CreateDocusignEventIfNotExists(event *models.DocusignEvent) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *gormRepository) MarkDocusignEventProcessed(eventID string) error {
	return r.db.Model(&models.DocusignEvent{}).
		Where("event_id = ?", eventID).
		Update("processed", true).Error
}

func (r *gormRepository) GetHelloSignEvent(eventID string) (*models.HelloSignEvent, error) {
	var ev models.HelloSignEvent
	if err := r.db.First(&ev, "event_id = ?", eventID).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *gormRepository) GetDocusignEvent(eventID string) (*models.DocusignEvent, error) {
	var ev models.DocusignEvent
	if err := r.db.First(&ev, "event_id = ?", eventID).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

// ListUnprocessedDocusignEvents returns stored envelope events that never
// resolved against an agreement, oldest first.
func (r *gormRepository) ListUnprocessedDocusignEvents(limit int) ([]models.DocusignEvent, error) {
	var events []models.DocusignEvent
	q := r.db.Where("processed = ?", false).Order("created_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&events).Error
	return events, err
}

func (r *gormRepository) AppendEventLog(entry *models.FeeAgreementEventLog) error {
	return r.db.Create(entry).Error
}

// HasEventLogForProviderEvent is the uniqueness check run before an append so
// a reprocessed provider event never yields a second event log row.
func (r *gormRepository) HasEventLogForProviderEvent(provider Provider, eventID string) (bool, error) {
	var count int64
	q := r.db.Model(&models.FeeAgreementEventLog{})
	switch provider {
	case ProviderHelloSign:
		q = q.Where("hello_sign_event_id = ?", eventID)
	case ProviderDocusign:
		q = q.Where("docusign_event_id = ?", eventID)
	default:
		return false, errors.New("unknown provider")
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) ListEventLog(feeAgreementID uint) ([]models.FeeAgreementEventLog, error) {
	var entries []models.FeeAgreementEventLog
	err := r.db.Where("fee_agreement_id = ?", feeAgreementID).
		Order("real_date asc, id asc").
		Find(&entries).Error
	return entries, err
}
