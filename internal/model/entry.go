package model

import "github.com/shopspring/decimal"

// Entry is a single dated expense record owned by the current user.
type Entry struct {
	ID    string
	Date  string // ISO 8601 "YYYY-MM-DD", lexically sortable
	Price decimal.Decimal
	Note  string
}

// EntryDraft carries the three mutable fields for create/update.
type EntryDraft struct {
	Date  string
	Price decimal.Decimal
	Note  string
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// DisplayName prefers the profile name and falls back to email,
// matching what the dashboard topbar shows.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

type Session struct {
	Token string
	User  User
}

func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}
