package feeagreement

import (
	"sort"
	"time"

	"github.com/josdesi/gpac-backend/app/models"
)

// ResolvedState is the outcome of folding an agreement's event log.
type ResolvedState struct {
	StatusID     uint
	SentToSignAt *time.Time
	SignedAt     *time.Time
}

// Resolve computes the current status of a fee agreement from its full event
// log. Events are ordered by provider-reported real_date ascending, falling
// back to event log id (ingestion order) on ties. Terminal statuses (voided,
// declined) are sticky: only administrative event types move an agreement out
// of them. An empty log leaves the default status untouched.
func Resolve(cat *Catalog, defaultStatusID uint, events []models.FeeAgreementEventLog) ResolvedState {
	state := ResolvedState{StatusID: defaultStatusID}
	if len(events) == 0 {
		return state
	}

	ordered := make([]models.FeeAgreementEventLog, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].RealDate.Equal(ordered[j].RealDate) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].RealDate.Before(ordered[j].RealDate)
	})

	for i := range ordered {
		ev := &ordered[i]
		et, ok := cat.EventTypeByID(ev.EventTypeID)
		if !ok {
			continue
		}
		if cat.IsTerminalStatus(state.StatusID) && !et.Administrative {
			// A late viewed/signed webhook after a staff void must not
			// revert the terminal state.
			continue
		}
		switch et.ID {
		case models.EventTypeSentToSign:
			if state.SentToSignAt == nil {
				d := ev.RealDate
				state.SentToSignAt = &d
			}
		case models.EventTypeSigned:
			if state.SignedAt == nil {
				d := ev.RealDate
				state.SignedAt = &d
			}
		}
		if et.TargetStatusID != 0 {
			state.StatusID = et.TargetStatusID
		}
	}
	return state
}
