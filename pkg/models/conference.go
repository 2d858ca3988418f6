package models

// Conference is a competitive league teams belong to.
type Conference struct {
	ID        int64   `json:"id" db:"id"`
	Name      string  `json:"name" db:"name" validate:"required"`
	ShortName *string `json:"short_name,omitempty" db:"short_name"`
	Division  *string `json:"division,omitempty" db:"division"`
	Region    *string `json:"region,omitempty" db:"region"`
}
