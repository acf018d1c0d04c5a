package usecase

import (
	"cmp"
	"slices"
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

// IsOpen reports whether a lead belongs in the work queue.
func IsOpen(lead entity.Lead, roles entity.StatusRoles) bool {
	if roles.RoleOf(lead.Status).Closed() {
		return false
	}
	return !lead.CurrentAction.Parked()
}

func FilterOpen(leads []entity.Lead, roles entity.StatusRoles) []entity.Lead {
	open := make([]entity.Lead, 0, len(leads))
	for _, l := range leads {
		if IsOpen(l, roles) {
			open = append(open, l)
		}
	}
	return open
}

// RankQueue returns a ranked copy of leads. The sort is stable so equal
// leads keep their fetch order. now's location decides where "today" starts.
func RankQueue(leads []entity.Lead, now time.Time) []entity.Lead {
	today := startOfDay(now, now.Location())

	ranked := slices.Clone(leads)
	slices.SortStableFunc(ranked, func(a, b entity.Lead) int {
		return compareQueue(a, b, today)
	})
	return ranked
}

func BuildQueue(leads []entity.Lead, roles entity.StatusRoles, now time.Time) []entity.Lead {
	return RankQueue(FilterOpen(leads, roles), now)
}

func compareQueue(a, b entity.Lead, today time.Time) int {
	if c := cmp.Compare(a.Priority.Rank(), b.Priority.Rank()); c != 0 {
		return c
	}

	ad, bd := a.CurrentActionDate, b.CurrentActionDate
	switch {
	case ad != nil && bd == nil:
		return -1
	case ad == nil && bd != nil:
		return 1
	case ad != nil && bd != nil:
		aOverdue, bOverdue := ad.Before(today), bd.Before(today)
		if aOverdue != bOverdue {
			if aOverdue {
				return -1
			}
			return 1
		}
		if c := ad.Compare(*bd); c != 0 {
			return c
		}
	}

	// higher score first
	return cmp.Compare(b.Score(), a.Score())
}
