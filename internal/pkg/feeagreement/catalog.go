package feeagreement

import (
	"fmt"
	"sort"
	"sync"

	"github.com/josdesi/gpac-backend/app/models"
	"gorm.io/gorm"
)

// Catalog is the in-memory read-through view of the immutable status and
// event type reference tables. It is loaded once at startup (and reloaded
// after catalog migrations) and shared across requests.
type Catalog struct {
	mu          sync.RWMutex
	groups      map[uint]*models.FeeAgreementStatusGroup
	statuses    map[uint]*models.FeeAgreementStatus
	eventTypes  map[uint]*models.FeeAgreementEventType
	byHelloSign map[string]*models.FeeAgreementEventType
	byDocusign  map[string]*models.FeeAgreementEventType
}

var (
	catalog   *Catalog
	catalogMu sync.RWMutex
)

// LoadCatalog reads the catalog tables into the package-level instance.
func LoadCatalog(db *gorm.DB) error {
	c := &Catalog{}
	if err := c.Load(db); err != nil {
		return err
	}
	catalogMu.Lock()
	catalog = c
	catalogMu.Unlock()
	return nil
}

// GetCatalog returns the loaded catalog instance.
func GetCatalog() *Catalog {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	if catalog == nil {
		panic("fee agreement catalog not loaded. Call LoadCatalog first.")
	}
	return catalog
}

// Load populates the catalog from the database.
func (c *Catalog) Load(db *gorm.DB) error {
	var groups []models.FeeAgreementStatusGroup
	if err := db.Find(&groups).Error; err != nil {
		return fmt.Errorf("failed to load status groups: %w", err)
	}
	var statuses []models.FeeAgreementStatus
	if err := db.Find(&statuses).Error; err != nil {
		return fmt.Errorf("failed to load statuses: %w", err)
	}
	var eventTypes []models.FeeAgreementEventType
	if err := db.Find(&eventTypes).Error; err != nil {
		return fmt.Errorf("failed to load event types: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = make(map[uint]*models.FeeAgreementStatusGroup, len(groups))
	for i := range groups {
		c.groups[groups[i].ID] = &groups[i]
	}
	c.statuses = make(map[uint]*models.FeeAgreementStatus, len(statuses))
	for i := range statuses {
		c.statuses[statuses[i].ID] = &statuses[i]
	}
	c.eventTypes = make(map[uint]*models.FeeAgreementEventType, len(eventTypes))
	c.byHelloSign = make(map[string]*models.FeeAgreementEventType)
	c.byDocusign = make(map[string]*models.FeeAgreementEventType)
	for i := range eventTypes {
		et := &eventTypes[i]
		c.eventTypes[et.ID] = et
		if et.HelloSignEventType != nil && *et.HelloSignEventType != "" {
			c.byHelloSign[*et.HelloSignEventType] = et
		}
		if et.DocusignEventType != nil && *et.DocusignEventType != "" {
			c.byDocusign[*et.DocusignEventType] = et
		}
	}
	return nil
}

// StatusByID returns a status by id.
func (c *Catalog) StatusByID(id uint) (*models.FeeAgreementStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.statuses[id]
	return s, ok
}

// GroupByID returns a status group by id.
func (c *Catalog) GroupByID(id uint) (*models.FeeAgreementStatusGroup, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.groups[id]
	return g, ok
}

// EventTypeByID returns an event type by id.
func (c *Catalog) EventTypeByID(id uint) (*models.FeeAgreementEventType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	et, ok := c.eventTypes[id]
	return et, ok
}

// EventTypeForProvider resolves a provider event string to the single internal
// event type that claims it, if any.
func (c *Catalog) EventTypeForProvider(provider Provider, rawType string) (*models.FeeAgreementEventType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch provider {
	case ProviderHelloSign:
		et, ok := c.byHelloSign[rawType]
		return et, ok
	case ProviderDocusign:
		et, ok := c.byDocusign[rawType]
		return et, ok
	default:
		return nil, false
	}
}

// VisibleStatuses returns all statuses a given role is allowed to see in
// listings, ordered by id.
func (c *Catalog) VisibleStatuses(role string) []models.FeeAgreementStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	visible := make([]models.FeeAgreementStatus, 0, len(c.statuses))
	for _, s := range c.statuses {
		if s.HiddenForRole(role) {
			continue
		}
		visible = append(visible, *s)
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].ID < visible[j].ID })
	return visible
}

// HiddenStatusIDsForRole returns the status ids a role must not see in
// listings.
func (c *Catalog) HiddenStatusIDsForRole(role string) []uint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var hidden []uint
	for id, s := range c.statuses {
		if s.HiddenForRole(role) {
			hidden = append(hidden, id)
		}
	}
	sort.Slice(hidden, func(i, j int) bool { return hidden[i] < hidden[j] })
	return hidden
}

// IsTerminalStatus reports whether the status id belongs to a terminal group.
func (c *Catalog) IsTerminalStatus(statusID uint) bool {
	s, ok := c.StatusByID(statusID)
	return ok && s.IsTerminal()
}
