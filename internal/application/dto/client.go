package dto

import (
	"time"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

type CreateClientRequest struct {
	VendedorID string  `json:"vendedor_id"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone"`
	Address    string  `json:"address"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type ClientResponse struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	VendedorID string    `json:"vendedor_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ID,
		CompanyID:  c.CompanyID,
		VendedorID: c.VendedorID,
		Name:       c.Name,
		Phone:      c.Phone,
		Address:    c.Address,
		Latitude:   c.Latitude,
		Longitude:  c.Longitude,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func ToClientResponses(clients []*entity.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, ToClientResponse(c))
	}
	return out
}
