package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/PanelVentas-api/internal/application/authz"
	"github.com/jhoicas/PanelVentas-api/internal/application/dto"
	"github.com/jhoicas/PanelVentas-api/internal/domain"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
	"github.com/jhoicas/PanelVentas-api/pkg/logger"
)

// ClientUseCase gestiona clientes localizados: contactos con geolocalización
// capturada en terreno, colgados de un vendedor. El listado respeta el
// alcance jerárquico del actor.
type ClientUseCase struct {
	clients repository.ClientRepository
	users   repository.UserRepository
	scopes  *authz.ScopeResolver
	log     *logger.Logger
}

func NewClientUseCase(clients repository.ClientRepository, users repository.UserRepository, scopes *authz.ScopeResolver, log *logger.Logger) *ClientUseCase {
	return &ClientUseCase{clients: clients, users: users, scopes: scopes, log: log.Component("clients")}
}

// Create registra un cliente localizado para un vendedor dentro del alcance
// del actor.
func (uc *ClientUseCase) Create(ctx context.Context, actor authz.Actor, req dto.CreateClientRequest) (dto.ClientResponse, error) {
	if req.Name == "" {
		return dto.ClientResponse{}, fmt.Errorf("%w: el nombre es requerido", domain.ErrValidation)
	}
	if req.VendedorID == "" {
		return dto.ClientResponse{}, fmt.Errorf("%w: vendedor_id es requerido", domain.ErrValidation)
	}

	vendedor, err := uc.users.GetByID(ctx, req.VendedorID)
	if err != nil {
		return dto.ClientResponse{}, fmt.Errorf("buscar vendedor: %w", err)
	}
	if vendedor == nil || !vendedor.IsUsable() || vendedor.Role != entity.RoleVendedor {
		return dto.ClientResponse{}, fmt.Errorf("%w: el vendedor no existe o está inactivo", domain.ErrValidation)
	}
	// El vendedor debe estar dentro del alcance jerárquico del actor.
	ok, err := uc.scopes.CanRead(ctx, actor, vendedor)
	if err != nil {
		return dto.ClientResponse{}, err
	}
	if !ok {
		return dto.ClientResponse{}, domain.ErrForbidden
	}

	now := NowFunc().UTC()
	client := &entity.Client{
		ID:         uuid.New().String(),
		CompanyID:  *vendedor.CompanyID,
		VendedorID: vendedor.ID,
		Name:       req.Name,
		Phone:      req.Phone,
		Address:    req.Address,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.clients.Create(ctx, client); err != nil {
		return dto.ClientResponse{}, fmt.Errorf("crear cliente: %w", err)
	}
	uc.log.Info().Str("client_id", client.ID).Str("vendedor_id", vendedor.ID).Msg("cliente localizado registrado")
	return dto.ToClientResponse(client), nil
}

// ListLocated devuelve los clientes localizados visibles para el actor.
func (uc *ClientUseCase) ListLocated(ctx context.Context, actor authz.Actor, limit, offset int) ([]dto.ClientResponse, error) {
	scope, err := uc.scopes.Resolve(ctx, actor, authz.ContextLocatedClients)
	if err != nil {
		return nil, err
	}
	clients, err := uc.clients.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar clientes: %w", err)
	}
	return dto.ToClientResponses(clients), nil
}
