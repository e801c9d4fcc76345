package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una conversación/lead.
const (
	ConversationOpen   = "abierta"
	ConversationWon    = "ganada"
	ConversationLost   = "perdida"
	ConversationClosed = "cerrada"
)

// Conversation es un lead ingresado desde un canal externo (WhatsApp, web),
// asignado a un vendedor de la empresa.
type Conversation struct {
	ID              string
	CompanyID       string
	VendedorID      *string // vendedor asignado; nil hasta que se asigna
	Channel         string  // whatsapp, web, telefono
	ContactName     string
	ContactPhone    string
	Status          string
	EstimatedAmount decimal.Decimal
	LastMessageAt   time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
