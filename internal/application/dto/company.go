package dto

import (
	"time"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

type CreateCompanyRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
}

type UpdateCompanyRequest struct {
	Name   *string `json:"name,omitempty"`
	TaxID  *string `json:"tax_id,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToCompanyResponse(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToCompanyResponses(companies []*entity.Company) []CompanyResponse {
	out := make([]CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, ToCompanyResponse(c))
	}
	return out
}
