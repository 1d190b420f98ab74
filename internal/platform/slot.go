package platform

import (
	"time"

	"github.com/feral-file/ff-acquirer/internal/domain"
)

// SelectSlot picks the slot to book from one FindSlots result.
//
// Among slots admitting the party, it returns the one closest to target whose
// time lies within flexMinutes of it, preferring the earlier slot on a tie.
// When nothing qualifies and allowEarliest is set, the earliest admitting slot
// is returned. The boolean is false when no slot was chosen.
func SelectSlot(slots []domain.Slot, target time.Time, flexMinutes int, partySize int, allowEarliest bool) (domain.Slot, bool) {
	window := time.Duration(flexMinutes) * time.Minute

	var (
		best      domain.Slot
		bestDelta time.Duration
		found     bool
		earliest  domain.Slot
		haveEarly bool
	)

	for _, s := range slots {
		if !s.Accommodates(partySize) {
			continue
		}

		if !haveEarly || s.Time.Before(earliest.Time) {
			earliest = s
			haveEarly = true
		}

		delta := absDuration(s.Time.Sub(target))
		if delta > window {
			continue
		}
		if !found || delta < bestDelta || (delta == bestDelta && s.Time.Before(best.Time)) {
			best = s
			bestDelta = delta
			found = true
		}
	}

	if found {
		return best, true
	}
	if allowEarliest && haveEarly {
		return earliest, true
	}
	return domain.Slot{}, false
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
