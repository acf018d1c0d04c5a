package usecase

import (
	"time"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

const (
	bucketSize     = 5
	staleAfterDays = 7
	weekAheadDays  = 7
)

type KPIs struct {
	Total          int `json:"total"`
	New            int `json:"new"`
	Contacted      int `json:"contacted"`
	Closings       int `json:"closings"`
	Lost           int `json:"lost"`
	InProgress     int `json:"in_progress"`
	ActionRequired int `json:"action_required"`
}

type StatusCount struct {
	StatusID   string  `json:"status_id"`
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type ActionCount struct {
	Action entity.Action `json:"action"`
	Count  int           `json:"count"`
}

type Dashboard struct {
	KPIs            KPIs          `json:"kpis"`
	ConversionRate  float64       `json:"conversion_rate"`
	StatusBreakdown []StatusCount `json:"status_breakdown"`
	Unmatched       int           `json:"unmatched"`
	ActionBreakdown []ActionCount `json:"action_breakdown"`
	Urgent          []entity.Lead `json:"urgent"`
	ThisWeek        []entity.Lead `json:"this_week"`
	Standby         []entity.Lead `json:"standby"`
}

// ConversionRate is won / (won + lost) * 100, or 0 when nothing is closed.
func ConversionRate(leads []entity.Lead, roles entity.StatusRoles) float64 {
	won, lost := 0, 0
	for _, l := range leads {
		switch roles.RoleOf(l.Status) {
		case entity.RoleWon:
			won++
		case entity.RoleLost:
			lost++
		}
	}
	if won+lost == 0 {
		return 0
	}
	return float64(won) / float64(won+lost) * 100
}

// NeedsAction reports whether a lead needs attention today.
func NeedsAction(lead entity.Lead, roles entity.StatusRoles, now time.Time) bool {
	today := startOfDay(now, now.Location())

	if lead.CurrentActionDate != nil && !startOfDay(*lead.CurrentActionDate, now.Location()).After(today) {
		return true
	}
	if roles.RoleOf(lead.Status).Fresh() {
		return true
	}
	if lead.LastContactDate != nil && now.Sub(*lead.LastContactDate) > staleAfterDays*24*time.Hour {
		return true
	}
	return false
}

func isUrgent(lead entity.Lead, today time.Time) bool {
	if lead.Priority == entity.PriorityUrgent {
		return true
	}
	return lead.CurrentActionDate != nil && !startOfDay(*lead.CurrentActionDate, today.Location()).After(today)
}

func isThisWeek(lead entity.Lead, today time.Time) bool {
	if lead.CurrentActionDate == nil {
		return false
	}
	day := startOfDay(*lead.CurrentActionDate, today.Location())
	return day.After(today) && !day.After(addDays(today, weekAheadDays))
}

func ComputeDashboard(leads []entity.Lead, statuses []entity.CustomStatus, roles entity.StatusRoles, now time.Time) Dashboard {
	today := startOfDay(now, now.Location())

	d := Dashboard{
		ConversionRate: ConversionRate(leads, roles),
		Urgent:         []entity.Lead{},
		ThisWeek:       []entity.Lead{},
		Standby:        []entity.Lead{},
	}
	d.KPIs.Total = len(leads)

	statusCounts := make([]int, len(statuses))
	actionCounts := make(map[entity.Action]int)

	for _, l := range leads {
		role := roles.RoleOf(l.Status)

		switch {
		case role.Fresh():
			d.KPIs.New++
		case role == entity.RoleWon:
			d.KPIs.Closings++
		case role == entity.RoleLost:
			d.KPIs.Lost++
		}
		if role == entity.RoleContacted {
			d.KPIs.Contacted++
		}
		if !role.Fresh() && !role.Closed() {
			d.KPIs.InProgress++
		}
		if NeedsAction(l, roles, now) {
			d.KPIs.ActionRequired++
		}

		matched := false
		for i, s := range statuses {
			if roles.Matches(l.Status, s) {
				statusCounts[i]++
				matched = true
				break
			}
		}
		if !matched {
			d.Unmatched++
		}

		action := l.CurrentAction
		if action == "" {
			action = entity.ActionNone
		}
		actionCounts[action]++

		if len(d.Urgent) < bucketSize && isUrgent(l, today) {
			d.Urgent = append(d.Urgent, l)
		}
		if len(d.ThisWeek) < bucketSize && isThisWeek(l, today) {
			d.ThisWeek = append(d.ThisWeek, l)
		}
		if len(d.Standby) < bucketSize && role == entity.RoleStandby {
			d.Standby = append(d.Standby, l)
		}
	}

	d.StatusBreakdown = make([]StatusCount, 0, len(statuses))
	for i, s := range statuses {
		sc := StatusCount{StatusID: s.ID, Name: s.Name, Color: s.Color, Count: statusCounts[i]}
		if d.KPIs.Total > 0 {
			sc.Percentage = float64(statusCounts[i]) / float64(d.KPIs.Total) * 100
		}
		d.StatusBreakdown = append(d.StatusBreakdown, sc)
	}

	d.ActionBreakdown = make([]ActionCount, 0, len(entity.Actions))
	for _, a := range entity.Actions {
		if n := actionCounts[a]; n > 0 {
			d.ActionBreakdown = append(d.ActionBreakdown, ActionCount{Action: a, Count: n})
		}
	}

	return d
}
