package feeagreement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josdesi/gpac-backend/app/models"
)

func TestCatalogProviderMapping(t *testing.T) {
	db := newTestDB(t)
	cat := newTestCatalog(t, db)

	et, ok := cat.EventTypeForProvider(ProviderHelloSign, "signature_request_all_signed")
	require.True(t, ok)
	assert.Equal(t, models.EventTypeSigned, et.ID)

	et, ok = cat.EventTypeForProvider(ProviderDocusign, "envelope-voided")
	require.True(t, ok)
	assert.Equal(t, models.EventTypeVoided, et.ID)
	assert.True(t, et.Administrative)

	_, ok = cat.EventTypeForProvider(ProviderHelloSign, "signature_request_downloadable")
	assert.False(t, ok)

	// Reactivated is internal only and must not be reachable from a provider
	// string.
	_, ok = cat.EventTypeForProvider(ProviderDocusign, "")
	assert.False(t, ok)
}

func TestCatalogTerminalStatuses(t *testing.T) {
	db := newTestDB(t)
	cat := newTestCatalog(t, db)

	assert.False(t, cat.IsTerminalStatus(models.FeeAgreementStatusUnsigned))
	assert.False(t, cat.IsTerminalStatus(models.FeeAgreementStatusSentToSign))
	assert.False(t, cat.IsTerminalStatus(models.FeeAgreementStatusSigned))
	assert.True(t, cat.IsTerminalStatus(models.FeeAgreementStatusVoided))
	assert.True(t, cat.IsTerminalStatus(models.FeeAgreementStatusDeclined))
	assert.False(t, cat.IsTerminalStatus(999))
}

func TestCatalogRoleVisibility(t *testing.T) {
	db := newTestDB(t)
	cat := newTestCatalog(t, db)

	// Recruiters do not see voided or declined agreements by default.
	hidden := cat.HiddenStatusIDsForRole(models.ROLE_RECRUITER)
	assert.Equal(t, []uint{models.FeeAgreementStatusVoided, models.FeeAgreementStatusDeclined}, hidden)

	visible := cat.VisibleStatuses(models.ROLE_RECRUITER)
	ids := make([]uint, 0, len(visible))
	for _, s := range visible {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []uint{1, 2, 3}, ids)

	// Operations and coaches see everything.
	assert.Empty(t, cat.HiddenStatusIDsForRole(models.ROLE_OPERATIONS))
	assert.Len(t, cat.VisibleStatuses(models.ROLE_COACH), 5)
}

func TestGetCatalogPanicsWhenUnloaded(t *testing.T) {
	catalogMu.Lock()
	saved := catalog
	catalog = nil
	catalogMu.Unlock()
	defer func() {
		catalogMu.Lock()
		catalog = saved
		catalogMu.Unlock()
	}()

	assert.Panics(t, func() { GetCatalog() })
}
