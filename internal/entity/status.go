package entity

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

type CustomStatus struct {
	ID       string `json:"id"`
	TeamID   string `json:"team_id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Position int    `json:"position"`
}

type StatusRole string

const (
	RoleWon       StatusRole = "won"
	RoleLost      StatusRole = "lost"
	RoleStandby   StatusRole = "standby"
	RoleContacted StatusRole = "contacted"
	RoleOptIn     StatusRole = "opt_in"
	RoleNew       StatusRole = "new"
	RoleOther     StatusRole = "other"
)

// Roles lists the vocabulary roles in resolution order.
var Roles = []StatusRole{RoleWon, RoleLost, RoleStandby, RoleContacted, RoleOptIn, RoleNew}

// Closed reports whether leads in this role have left the pipeline.
func (r StatusRole) Closed() bool {
	return r == RoleWon || r == RoleLost
}

// Fresh reports whether the lead has not been worked yet.
func (r StatusRole) Fresh() bool {
	return r == RoleNew || r == RoleOptIn
}

// StatusVocabulary maps each role to the labels teams use for it.
type StatusVocabulary map[StatusRole][]string

type StatusRepositoryInterface interface {
	ListByTeam(ctx context.Context, teamID string) ([]CustomStatus, error)
}

// StatusRoles resolves free-text lead statuses to roles. Build it once per
// team with ResolveStatusRoles and reuse it for every lead of the snapshot.
type StatusRoles struct {
	byKey  map[string]StatusRole
	labels map[StatusRole]string
}

var folder = cases.Fold()

// FoldLabel normalizes composed/decomposed accents before folding case so
// "GAGNÉ", "gagné" and "gagné" compare equal.
func FoldLabel(s string) string {
	return folder.String(norm.NFC.String(strings.TrimSpace(s)))
}

func ResolveStatusRoles(statuses []CustomStatus, vocab StatusVocabulary) StatusRoles {
	r := StatusRoles{
		byKey:  make(map[string]StatusRole),
		labels: make(map[StatusRole]string),
	}

	for _, role := range Roles {
		aliases := vocab[role]
		for _, alias := range aliases {
			key := FoldLabel(alias)
			if key == "" {
				continue
			}
			if _, taken := r.byKey[key]; !taken {
				r.byKey[key] = role
			}
		}
		if len(aliases) > 0 {
			r.labels[role] = aliases[0]
		}
	}

	// the team's own label wins as display name for its role
	for _, s := range statuses {
		if role, ok := r.byKey[FoldLabel(s.Name)]; ok {
			r.labels[role] = s.Name
		}
	}

	return r
}

func (r StatusRoles) RoleOf(status string) StatusRole {
	if role, ok := r.byKey[FoldLabel(status)]; ok {
		return role
	}
	return RoleOther
}

// Label returns the display label configured for a role, empty when unknown.
func (r StatusRoles) Label(role StatusRole) string {
	return r.labels[role]
}

func (r StatusRoles) Matches(status string, s CustomStatus) bool {
	return FoldLabel(status) == FoldLabel(s.Name)
}
