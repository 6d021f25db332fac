package repository

import (
	"strings"

	"github.com/josdesi/gpac-backend/app/models"
	"gorm.io/gorm"
)

// companyRepository implements the CompanyRepository interface
type companyRepository struct {
	db *gorm.DB
}

// NewCompanyRepository creates a new company repository instance
func NewCompanyRepository(db *gorm.DB) CompanyRepository {
	return &companyRepository{db: db}
}

// Create creates a new client company in the database
func (r *companyRepository) Create(company *models.Company) error {
	return r.db.Create(company).Error
}

// GetByID retrieves a company with its hiring authorities
func (r *companyRepository) GetByID(id uint) (*models.Company, error) {
	var company models.Company
	err := r.db.Preload("HiringAuthorities").First(&company, id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetWithAgreements retrieves a company with its hiring authorities and fee
// agreements
func (r *companyRepository) GetWithAgreements(id uint) (*models.Company, error) {
	var company models.Company
	err := r.db.Preload("HiringAuthorities").Preload("FeeAgreements").First(&company, id).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// GetByRecruiterID retrieves companies owned by a recruiter
func (r *companyRepository) GetByRecruiterID(recruiterID uint, offset, limit int) ([]models.Company, error) {
	var companies []models.Company
	err := r.db.Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&companies).Error
	return companies, err
}

// Update updates an existing company in the database
func (r *companyRepository) Update(company *models.Company) error {
	return r.db.Save(company).Error
}

// Delete soft deletes a company by its ID
func (r *companyRepository) Delete(id uint) error {
	return r.db.Delete(&models.Company{}, id).Error
}

// List retrieves a paginated list of companies
func (r *companyRepository) List(offset, limit int) ([]models.Company, error) {
	var companies []models.Company
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&companies).Error
	return companies, err
}

// Count returns the total number of companies
func (r *companyRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Company{}).Count(&count).Error
	return count, err
}

// Search searches for companies by name or city
func (r *companyRepository) Search(query string) ([]models.Company, error) {
	var companies []models.Company
	searchPattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("name LIKE ? OR city LIKE ?", searchPattern, searchPattern).
		Find(&companies).Error
	return companies, err
}

// CreateHiringAuthority adds a contact to a company
func (r *companyRepository) CreateHiringAuthority(ha *models.HiringAuthority) error {
	return r.db.Create(ha).Error
}

// GetHiringAuthorityByID retrieves a hiring authority by its ID
func (r *companyRepository) GetHiringAuthorityByID(id uint) (*models.HiringAuthority, error) {
	var ha models.HiringAuthority
	err := r.db.First(&ha, id).Error
	if err != nil {
		return nil, err
	}
	return &ha, nil
}

// ListHiringAuthorities retrieves all contacts for a company
func (r *companyRepository) ListHiringAuthorities(companyID uint) ([]models.HiringAuthority, error) {
	var has []models.HiringAuthority
	err := r.db.Where("company_id = ?", companyID).Order("last_name asc").Find(&has).Error
	return has, err
}
