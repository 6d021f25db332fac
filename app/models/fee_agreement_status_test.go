package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeAgreementStatusHiddenForRole(t *testing.T) {
	s := &FeeAgreementStatus{HideByDefaultForRoles: "recruiter, coach"}
	assert.True(t, s.HiddenForRole("recruiter"))
	assert.True(t, s.HiddenForRole(" Coach "))
	assert.False(t, s.HiddenForRole("operations"))

	open := &FeeAgreementStatus{}
	assert.False(t, open.HiddenForRole("recruiter"))

	hiddenAll := &FeeAgreementStatus{Hidden: true}
	assert.True(t, hiddenAll.HiddenForRole("operations"))
}

func TestFeeAgreementStatusIsTerminal(t *testing.T) {
	assert.False(t, (&FeeAgreementStatus{StatusGroupID: StatusGroupUnsigned}).IsTerminal())
	assert.False(t, (&FeeAgreementStatus{StatusGroupID: StatusGroupSigned}).IsTerminal())
	assert.True(t, (&FeeAgreementStatus{StatusGroupID: StatusGroupVoided}).IsTerminal())
	assert.True(t, (&FeeAgreementStatus{StatusGroupID: StatusGroupDeclined}).IsTerminal())
}
