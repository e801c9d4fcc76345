package entity

import "time"

// Client es un cliente localizado: un contacto con geolocalización capturada
// en terreno, asignado a un vendedor.
type Client struct {
	ID         string
	CompanyID  string
	VendedorID string
	Name       string
	Phone      string
	Address    string
	Latitude   float64
	Longitude  float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
