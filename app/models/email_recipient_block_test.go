package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmailRecipientBlockMatches(t *testing.T) {
	emailBlock := &EmailRecipientBlock{Kind: BlockKindEmail, Value: "Bounced@Corp.example"}
	assert.True(t, emailBlock.Matches("bounced@corp.example"))
	assert.True(t, emailBlock.Matches("  BOUNCED@CORP.EXAMPLE "))
	assert.False(t, emailBlock.Matches("other@corp.example"))

	domainBlock := &EmailRecipientBlock{Kind: BlockKindDomain, Value: "competitor.example"}
	assert.True(t, domainBlock.Matches("anyone@competitor.example"))
	assert.False(t, domainBlock.Matches("anyone@corp.example"))
	assert.False(t, domainBlock.Matches("no-at-sign"))

	unknown := &EmailRecipientBlock{Kind: "cidr", Value: "x"}
	assert.False(t, unknown.Matches("a@b.example"))
}
