package repository

import (
	"github.com/josdesi/gpac-backend/app/models"
	"gorm.io/gorm"
)

// jobOrderRepository implements the JobOrderRepository interface
type jobOrderRepository struct {
	db *gorm.DB
}

// NewJobOrderRepository creates a new job order repository instance
func NewJobOrderRepository(db *gorm.DB) JobOrderRepository {
	return &jobOrderRepository{db: db}
}

// Create creates a new job order in the database
func (r *jobOrderRepository) Create(jobOrder *models.JobOrder) error {
	return r.db.Create(jobOrder).Error
}

// GetByID retrieves a job order with its company and hiring authority
func (r *jobOrderRepository) GetByID(id uint) (*models.JobOrder, error) {
	var jobOrder models.JobOrder
	err := r.db.Preload("Company").Preload("HiringAuthority").Preload("Placements").
		First(&jobOrder, id).Error
	if err != nil {
		return nil, err
	}
	return &jobOrder, nil
}

// GetByCompanyID retrieves all job orders for a company
func (r *jobOrderRepository) GetByCompanyID(companyID uint) ([]models.JobOrder, error) {
	var jobOrders []models.JobOrder
	err := r.db.Where("company_id = ?", companyID).Order("created_at DESC").Find(&jobOrders).Error
	return jobOrders, err
}

// GetByStatus retrieves job orders in the given status
func (r *jobOrderRepository) GetByStatus(status string, offset, limit int) ([]models.JobOrder, error) {
	var jobOrders []models.JobOrder
	err := r.db.Where("status = ?", status).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&jobOrders).Error
	return jobOrders, err
}

// Update updates an existing job order in the database
func (r *jobOrderRepository) Update(jobOrder *models.JobOrder) error {
	return r.db.Save(jobOrder).Error
}

// Delete soft deletes a job order by its ID
func (r *jobOrderRepository) Delete(id uint) error {
	return r.db.Delete(&models.JobOrder{}, id).Error
}

// List retrieves a paginated list of job orders
func (r *jobOrderRepository) List(offset, limit int) ([]models.JobOrder, error) {
	var jobOrders []models.JobOrder
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&jobOrders).Error
	return jobOrders, err
}

// Count returns the total number of job orders
func (r *jobOrderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.JobOrder{}).Count(&count).Error
	return count, err
}

// CreatePlacement records a candidate hired through a job order
func (r *jobOrderRepository) CreatePlacement(placement *models.Placement) error {
	return r.db.Create(placement).Error
}

// GetPlacementByID retrieves a placement by its ID
func (r *jobOrderRepository) GetPlacementByID(id uint) (*models.Placement, error) {
	var placement models.Placement
	err := r.db.First(&placement, id).Error
	if err != nil {
		return nil, err
	}
	return &placement, nil
}

// ListPlacements retrieves all placements for a job order
func (r *jobOrderRepository) ListPlacements(jobOrderID uint) ([]models.Placement, error) {
	var placements []models.Placement
	err := r.db.Where("job_order_id = ?", jobOrderID).Order("created_at DESC").Find(&placements).Error
	return placements, err
}
