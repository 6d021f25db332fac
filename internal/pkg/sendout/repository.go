package sendout

import (
	"strings"
	"time"

	"github.com/josdesi/gpac-backend/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the sendout service.
type Repository interface {
	CreateSendout(s *models.Sendout) error
	GetSendoutByID(id uint) (*models.Sendout, error)
	GetSendoutByUUID(uuid string) (*models.Sendout, error)
	SaveSendout(s *models.Sendout) error
	SaveRecipient(r *models.SendoutRecipient) error
	ListPendingRecipients(sendoutID uint) ([]models.SendoutRecipient, error)
	GetRecipientBySGMessageID(sgMessageID string) (*models.SendoutRecipient, error)
	ListDueScheduled(limit int) ([]models.Sendout, error)
	FindBlockForEmail(email string) (*models.EmailRecipientBlock, error)
	CreateBlockIfNotExists(b *models.EmailRecipientBlock) (bool, error)
	CreateSendGridEventIfNotExists(ev *models.SendGridEvent) (bool, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a sendout repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateSendout(s *models.Sendout) error {
	return r.db.Create(s).Error
}

func (r *gormRepository) GetSendoutByID(id uint) (*models.Sendout, error) {
	var s models.Sendout
	if err := r.db.Preload("Recipients").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *gormRepository) GetSendoutByUUID(uuid string) (*models.Sendout, error) {
	var s models.Sendout
	if err := r.db.Preload("Recipients").Where("uuid = ?", uuid).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *gormRepository) SaveSendout(s *models.Sendout) error {
	return r.db.Save(s).Error
}

func (r *gormRepository) SaveRecipient(rec *models.SendoutRecipient) error {
	return r.db.Save(rec).Error
}

func (r *gormRepository) ListPendingRecipients(sendoutID uint) ([]models.SendoutRecipient, error) {
	var recipients []models.SendoutRecipient
	err := r.db.Where("sendout_id = ? AND status = ?", sendoutID, models.RecipientStatusPending).
		Find(&recipients).Error
	return recipients, err
}

func (r *gormRepository) GetRecipientBySGMessageID(sgMessageID string) (*models.SendoutRecipient, error) {
	var rec models.SendoutRecipient
	if err := r.db.Where("sg_message_id = ?", sgMessageID).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListDueScheduled returns scheduled sendouts whose delivery time has passed.
func (r *gormRepository) ListDueScheduled(limit int) ([]models.Sendout, error) {
	var sendouts []models.Sendout
	q := r.db.Where("status = ? AND scheduled_at <= ?", models.SendoutStatusScheduled, time.Now().UTC()).
		Order("scheduled_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&sendouts).Error
	return sendouts, err
}

// FindBlockForEmail resolves the first block rule matching the address: an
// exact email block or a domain block.
func (r *gormRepository) FindBlockForEmail(email string) (*models.EmailRecipientBlock, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	domain := ""
	if at := strings.LastIndex(email, "@"); at >= 0 {
		domain = email[at+1:]
	}

	var block models.EmailRecipientBlock
	err := r.db.Where("(kind = ? AND value = ?) OR (kind = ? AND value = ?)",
		models.BlockKindEmail, email, models.BlockKindDomain, domain).
		First(&block).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

func (r *gormRepository) CreateBlockIfNotExists(b *models.EmailRecipientBlock) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "kind"},
			{Name: "value"},
		},
		DoNothing: true,
	}).Create(b)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// CreateSendGridEventIfNotExists inserts the processed-event marker keyed by
// the SendGrid event id. Returns false when the id was already recorded.
func (r *gormRepository) CreateSendGridEventIfNotExists(ev *models.SendGridEvent) (bool, error) {
	tx := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(ev)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
