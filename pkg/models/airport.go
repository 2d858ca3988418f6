package models

// Airport is a commercial airport with scheduled service, loaded from the
// public airports dataset and used to annotate teams with travel info.
type Airport struct {
	ID        int64   `json:"id" db:"id"`
	IataCode  string  `json:"iata_code" db:"iata_code" validate:"required,len=3"`
	Name      string  `json:"name" db:"name" validate:"required"`
	City      *string `json:"city,omitempty" db:"city"`
	State     *string `json:"state,omitempty" db:"state"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Size      string  `json:"size" db:"size"`
}
