package models

// Coach is a coaching staff entry for a team.
type Coach struct {
	ID     int64   `json:"id" db:"id"`
	TeamID int64   `json:"team_id" db:"team_id"`
	Name   string  `json:"name" db:"name" validate:"required"`
	Title  *string `json:"title,omitempty" db:"title"`
	Email  *string `json:"email,omitempty" db:"email"`
}
