package repository

import (
	"strings"

	"github.com/josdesi/gpac-backend/app/models"
	"gorm.io/gorm"
)

// candidateRepository implements the CandidateRepository interface
type candidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository creates a new candidate repository instance
func NewCandidateRepository(db *gorm.DB) CandidateRepository {
	return &candidateRepository{db: db}
}

// Create creates a new candidate in the database
func (r *candidateRepository) Create(candidate *models.Candidate) error {
	return r.db.Create(candidate).Error
}

// GetByID retrieves a candidate by their ID
func (r *candidateRepository) GetByID(id uint) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.First(&candidate, id).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// GetByEmail retrieves a candidate by their email address
func (r *candidateRepository) GetByEmail(email string) (*models.Candidate, error) {
	var candidate models.Candidate
	err := r.db.Where("email = ?", email).First(&candidate).Error
	if err != nil {
		return nil, err
	}
	return &candidate, nil
}

// Update updates an existing candidate in the database
func (r *candidateRepository) Update(candidate *models.Candidate) error {
	return r.db.Save(candidate).Error
}

// Delete soft deletes a candidate by their ID
func (r *candidateRepository) Delete(id uint) error {
	return r.db.Delete(&models.Candidate{}, id).Error
}

// List retrieves a paginated list of candidates
func (r *candidateRepository) List(offset, limit int) ([]models.Candidate, error) {
	var candidates []models.Candidate
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&candidates).Error
	return candidates, err
}

// Count returns the total number of candidates
func (r *candidateRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Candidate{}).Count(&count).Error
	return count, err
}

// Search searches for candidates by name, email or title
func (r *candidateRepository) Search(query string) ([]models.Candidate, error) {
	var candidates []models.Candidate
	searchPattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR title LIKE ?",
		searchPattern, searchPattern, searchPattern, searchPattern).Find(&candidates).Error
	return candidates, err
}
