package repository

import (
	"github.com/josdesi/gpac-backend/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for staff user database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
}

// CompanyRepository defines the interface for client company operations
type CompanyRepository interface {
	Create(company *models.Company) error
	GetByID(id uint) (*models.Company, error)
	GetWithAgreements(id uint) (*models.Company, error)
	GetByRecruiterID(recruiterID uint, offset, limit int) ([]models.Company, error)
	Update(company *models.Company) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Company, error)
	Count() (int64, error)
	Search(query string) ([]models.Company, error)
	CreateHiringAuthority(ha *models.HiringAuthority) error
	GetHiringAuthorityByID(id uint) (*models.HiringAuthority, error)
	ListHiringAuthorities(companyID uint) ([]models.HiringAuthority, error)
}

// CandidateRepository defines the interface for candidate operations
type CandidateRepository interface {
	Create(candidate *models.Candidate) error
	GetByID(id uint) (*models.Candidate, error)
	GetByEmail(email string) (*models.Candidate, error)
	Update(candidate *models.Candidate) error
	Delete(id uint) error
	List(offset, limit int) ([]models.Candidate, error)
	Count() (int64, error)
	Search(query string) ([]models.Candidate, error)
}

// JobOrderRepository defines the interface for job order operations
type JobOrderRepository interface {
	Create(jobOrder *models.JobOrder) error
	GetByID(id uint) (*models.JobOrder, error)
	GetByCompanyID(companyID uint) ([]models.JobOrder, error)
	GetByStatus(status string, offset, limit int) ([]models.JobOrder, error)
	Update(jobOrder *models.JobOrder) error
	Delete(id uint) error
	List(offset, limit int) ([]models.JobOrder, error)
	Count() (int64, error)
	CreatePlacement(placement *models.Placement) error
	GetPlacementByID(id uint) (*models.Placement, error)
	ListPlacements(jobOrderID uint) ([]models.Placement, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User      UserRepository
	Company   CompanyRepository
	Candidate CandidateRepository
	JobOrder  JobOrderRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db),
		Company:   NewCompanyRepository(db),
		Candidate: NewCandidateRepository(db),
		JobOrder:  NewJobOrderRepository(db),
	}
}
