package platform_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/feral-file/ff-acquirer/internal/domain"
	"github.com/feral-file/ff-acquirer/internal/platform"
)

func TestSelectSlot(t *testing.T) {
	target := time.Date(2026, 11, 20, 19, 30, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return time.Date(2026, 11, 20, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name          string
		slots         []domain.Slot
		flex          int
		partySize     int
		allowEarliest bool
		wantToken     string
		wantOK        bool
	}{
		{
			name:   "no slots",
			flex:   30,
			wantOK: false,
		},
		{
			name: "exact match wins",
			slots: []domain.Slot{
				{Token: "a", Time: at(19, 0)},
				{Token: "b", Time: at(19, 30)},
				{Token: "c", Time: at(20, 0)},
			},
			flex:      30,
			partySize: 2,
			wantToken: "b",
			wantOK:    true,
		},
		{
			name: "closest inside window",
			slots: []domain.Slot{
				{Token: "a", Time: at(18, 45)},
				{Token: "b", Time: at(19, 50)},
			},
			flex:      30,
			partySize: 2,
			wantToken: "b",
			wantOK:    true,
		},
		{
			name: "tie prefers earlier slot",
			slots: []domain.Slot{
				{Token: "late", Time: at(19, 45)},
				{Token: "early", Time: at(19, 15)},
			},
			flex:      30,
			partySize: 2,
			wantToken: "early",
			wantOK:    true,
		},
		{
			name: "window boundary is inclusive",
			slots: []domain.Slot{
				{Token: "edge", Time: at(20, 0)},
			},
			flex:      30,
			partySize: 2,
			wantToken: "edge",
			wantOK:    true,
		},
		{
			name: "outside window without fallback",
			slots: []domain.Slot{
				{Token: "a", Time: at(17, 0)},
				{Token: "b", Time: at(22, 0)},
			},
			flex:      30,
			partySize: 2,
			wantOK:    false,
		},
		{
			name: "outside window falls back to earliest when allowed",
			slots: []domain.Slot{
				{Token: "b", Time: at(22, 0)},
				{Token: "a", Time: at(17, 0)},
			},
			flex:          30,
			partySize:     2,
			allowEarliest: true,
			wantToken:     "a",
			wantOK:        true,
		},
		{
			name: "zero flexibility needs exact time",
			slots: []domain.Slot{
				{Token: "a", Time: at(19, 31)},
			},
			flex:      0,
			partySize: 2,
			wantOK:    false,
		},
		{
			name: "party size outside bounds is skipped",
			slots: []domain.Slot{
				{Token: "small", Time: at(19, 30), MinParty: 1, MaxParty: 2},
				{Token: "large", Time: at(19, 45), MinParty: 3, MaxParty: 6},
			},
			flex:      30,
			partySize: 4,
			wantToken: "large",
			wantOK:    true,
		},
		{
			name: "fallback respects party bounds",
			slots: []domain.Slot{
				{Token: "small", Time: at(17, 0), MaxParty: 2},
				{Token: "large", Time: at(22, 0), MaxParty: 8},
			},
			flex:          15,
			partySize:     6,
			allowEarliest: true,
			wantToken:     "large",
			wantOK:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, ok := platform.SelectSlot(tt.slots, target, tt.flex, tt.partySize, tt.allowEarliest)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantToken, slot.Token)
			}
		})
	}
}
