package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

// IngestConversationRequest es el payload del webhook de leads.
type IngestConversationRequest struct {
	CompanyID       string          `json:"company_id"`
	VendedorID      *string         `json:"vendedor_id,omitempty"`
	Channel         string          `json:"channel"`
	ContactName     string          `json:"contact_name"`
	ContactPhone    string          `json:"contact_phone"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
}

type UpdateConversationRequest struct {
	VendedorID      *string          `json:"vendedor_id,omitempty"`
	Status          *string          `json:"status,omitempty"`
	EstimatedAmount *decimal.Decimal `json:"estimated_amount,omitempty"`
}

type ConversationResponse struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	VendedorID      *string         `json:"vendedor_id,omitempty"`
	Channel         string          `json:"channel"`
	ContactName     string          `json:"contact_name"`
	ContactPhone    string          `json:"contact_phone"`
	Status          string          `json:"status"`
	EstimatedAmount decimal.Decimal `json:"estimated_amount"`
	LastMessageAt   time.Time       `json:"last_message_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func ToConversationResponse(c *entity.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:              c.ID,
		CompanyID:       c.CompanyID,
		VendedorID:      c.VendedorID,
		Channel:         c.Channel,
		ContactName:     c.ContactName,
		ContactPhone:    c.ContactPhone,
		Status:          c.Status,
		EstimatedAmount: c.EstimatedAmount,
		LastMessageAt:   c.LastMessageAt,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func ToConversationResponses(conversations []*entity.Conversation) []ConversationResponse {
	out := make([]ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		out = append(out, ToConversationResponse(c))
	}
	return out
}
