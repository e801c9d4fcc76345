package repository

import (
	"context"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

// ConversationRepository define el puerto de persistencia para Conversation.
type ConversationRepository interface {
	Create(ctx context.Context, conv *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	// List intersecta con el alcance: UserIDs restringe por vendedor asignado.
	List(ctx context.Context, scope Scope, limit, offset int) ([]*entity.Conversation, error)
	Update(ctx context.Context, conv *entity.Conversation) error
}
