// Package conversation implementa la ingesta de leads desde canales externos
// y su consulta acotada por la jerarquía comercial.
package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/PanelVentas-api/internal/application/authz"
	"github.com/jhoicas/PanelVentas-api/internal/application/dto"
	"github.com/jhoicas/PanelVentas-api/internal/domain"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
	"github.com/jhoicas/PanelVentas-api/pkg/logger"
)

// NowFunc permite inyectar el reloj en tests.
var NowFunc = time.Now

var validStatuses = map[string]bool{
	entity.ConversationOpen:   true,
	entity.ConversationWon:    true,
	entity.ConversationLost:   true,
	entity.ConversationClosed: true,
}

// UseCase ingesta y consulta conversaciones (leads).
type UseCase struct {
	conversations repository.ConversationRepository
	companies     repository.CompanyRepository
	users         repository.UserRepository
	scopes        *authz.ScopeResolver
	log           *logger.Logger
}

func NewUseCase(conversations repository.ConversationRepository, companies repository.CompanyRepository, users repository.UserRepository, scopes *authz.ScopeResolver, log *logger.Logger) *UseCase {
	return &UseCase{
		conversations: conversations,
		companies:     companies,
		users:         users,
		scopes:        scopes,
		log:           log.Component("conversations"),
	}
}

// Ingest registra un lead entrante. Es la puerta estilo webhook: no hay
// actor autenticado, solo la empresa destino, que debe existir y estar
// activa.
func (uc *UseCase) Ingest(ctx context.Context, req dto.IngestConversationRequest) (dto.ConversationResponse, error) {
	if req.Channel == "" {
		return dto.ConversationResponse{}, fmt.Errorf("%w: el canal es requerido", domain.ErrValidation)
	}
	if req.ContactPhone == "" && req.ContactName == "" {
		return dto.ConversationResponse{}, fmt.Errorf("%w: se requiere nombre o teléfono de contacto", domain.ErrValidation)
	}

	company, err := uc.companies.GetByID(ctx, req.CompanyID)
	if err != nil {
		return dto.ConversationResponse{}, fmt.Errorf("buscar empresa: %w", err)
	}
	if company == nil || !company.IsUsable() {
		return dto.ConversationResponse{}, domain.ErrNotFound
	}

	if req.VendedorID != nil {
		if err := uc.assertVendedorOf(ctx, *req.VendedorID, req.CompanyID); err != nil {
			return dto.ConversationResponse{}, err
		}
	}

	now := NowFunc().UTC()
	conv := &entity.Conversation{
		ID:              uuid.New().String(),
		CompanyID:       req.CompanyID,
		VendedorID:      req.VendedorID,
		Channel:         req.Channel,
		ContactName:     req.ContactName,
		ContactPhone:    req.ContactPhone,
		Status:          entity.ConversationOpen,
		EstimatedAmount: req.EstimatedAmount,
		LastMessageAt:   now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.conversations.Create(ctx, conv); err != nil {
		return dto.ConversationResponse{}, fmt.Errorf("crear conversación: %w", err)
	}
	uc.log.Info().Str("conversation_id", conv.ID).Str("channel", conv.Channel).Msg("lead ingresado")
	return dto.ToConversationResponse(conv), nil
}

// List devuelve las conversaciones visibles para el actor.
func (uc *UseCase) List(ctx context.Context, actor authz.Actor, limit, offset int) ([]dto.ConversationResponse, error) {
	scope, err := uc.scopes.Resolve(ctx, actor, authz.ContextConversations)
	if err != nil {
		return nil, err
	}
	conversations, err := uc.conversations.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar conversaciones: %w", err)
	}
	return dto.ToConversationResponses(conversations), nil
}

// Update reasigna o cambia el estado de una conversación dentro del alcance
// del actor.
func (uc *UseCase) Update(ctx context.Context, actor authz.Actor, id string, req dto.UpdateConversationRequest) (dto.ConversationResponse, error) {
	conv, err := uc.conversations.GetByID(ctx, id)
	if err != nil {
		return dto.ConversationResponse{}, fmt.Errorf("buscar conversación: %w", err)
	}
	if conv == nil {
		return dto.ConversationResponse{}, domain.ErrNotFound
	}
	if err := uc.assertInScope(ctx, actor, conv); err != nil {
		return dto.ConversationResponse{}, err
	}

	if req.VendedorID != nil {
		if err := uc.assertVendedorOf(ctx, *req.VendedorID, conv.CompanyID); err != nil {
			return dto.ConversationResponse{}, err
		}
		// El nuevo vendedor también debe caer en el alcance del actor.
		vendedor, err := uc.users.GetByID(ctx, *req.VendedorID)
		if err != nil {
			return dto.ConversationResponse{}, fmt.Errorf("buscar vendedor: %w", err)
		}
		ok, err := uc.scopes.CanRead(ctx, actor, vendedor)
		if err != nil {
			return dto.ConversationResponse{}, err
		}
		if !ok {
			return dto.ConversationResponse{}, domain.ErrForbidden
		}
		conv.VendedorID = req.VendedorID
	}
	if req.Status != nil {
		if !validStatuses[*req.Status] {
			return dto.ConversationResponse{}, fmt.Errorf("%w: estado desconocido %q", domain.ErrValidation, *req.Status)
		}
		conv.Status = *req.Status
	}
	if req.EstimatedAmount != nil {
		conv.EstimatedAmount = *req.EstimatedAmount
	}
	conv.UpdatedAt = NowFunc().UTC()

	if err := uc.conversations.Update(ctx, conv); err != nil {
		return dto.ConversationResponse{}, fmt.Errorf("actualizar conversación: %w", err)
	}
	return dto.ToConversationResponse(conv), nil
}

// assertInScope aplica a un registro puntual el mismo predicado que filtra
// los listados. Fuera de alcance responde NotFound para no revelar
// existencia.
func (uc *UseCase) assertInScope(ctx context.Context, actor authz.Actor, conv *entity.Conversation) error {
	scope, err := uc.scopes.Resolve(ctx, actor, authz.ContextConversations)
	if err != nil {
		return err
	}
	switch {
	case scope.Nothing:
		return domain.ErrNotFound
	case scope.All:
		return nil
	case scope.CompanyID != "" && conv.CompanyID != scope.CompanyID:
		return domain.ErrNotFound
	case len(scope.UserIDs) == 0:
		return nil // alcance de empresa completa
	}
	if conv.VendedorID == nil {
		// Leads sin asignar: visibles solo para quien ve la empresa entera.
		return domain.ErrNotFound
	}
	for _, id := range scope.UserIDs {
		if id == *conv.VendedorID {
			return nil
		}
	}
	return domain.ErrNotFound
}

func (uc *UseCase) assertVendedorOf(ctx context.Context, vendedorID, companyID string) error {
	vendedor, err := uc.users.GetByID(ctx, vendedorID)
	if err != nil {
		return fmt.Errorf("buscar vendedor: %w", err)
	}
	if vendedor == nil || !vendedor.IsUsable() || vendedor.Role != entity.RoleVendedor ||
		vendedor.CompanyID == nil || *vendedor.CompanyID != companyID {
		return fmt.Errorf("%w: el vendedor no existe o no pertenece a la empresa", domain.ErrValidation)
	}
	return nil
}
