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

// CompanyUseCase gestiona empresas. Solo el admin de plataforma opera aquí;
// la ruta además exige el rol, pero la regla se re-verifica en esta capa.
type CompanyUseCase struct {
	companies repository.CompanyRepository
	log       *logger.Logger
}

func NewCompanyUseCase(companies repository.CompanyRepository, log *logger.Logger) *CompanyUseCase {
	return &CompanyUseCase{companies: companies, log: log.Component("companies")}
}

func (uc *CompanyUseCase) Create(ctx context.Context, actor authz.Actor, req dto.CreateCompanyRequest) (dto.CompanyResponse, error) {
	if actor.Role != entity.RoleAdmin {
		return dto.CompanyResponse{}, domain.ErrForbidden
	}
	if req.Name == "" {
		return dto.CompanyResponse{}, fmt.Errorf("%w: el nombre es requerido", domain.ErrValidation)
	}

	now := NowFunc().UTC()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      req.Name,
		TaxID:     req.TaxID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.companies.Create(ctx, company); err != nil {
		return dto.CompanyResponse{}, fmt.Errorf("crear empresa: %w", err)
	}
	uc.log.Info().Str("company_id", company.ID).Msg("empresa creada")
	return dto.ToCompanyResponse(company), nil
}

func (uc *CompanyUseCase) Get(ctx context.Context, actor authz.Actor, id string) (dto.CompanyResponse, error) {
	// Cada usuario puede ver su propia empresa; solo el admin ve cualquiera.
	if actor.Role != entity.RoleAdmin && actor.CompanyID != id {
		return dto.CompanyResponse{}, domain.ErrNotFound
	}
	company, err := uc.companies.GetByID(ctx, id)
	if err != nil {
		return dto.CompanyResponse{}, fmt.Errorf("buscar empresa: %w", err)
	}
	if company == nil || company.DeletedAt != nil {
		return dto.CompanyResponse{}, domain.ErrNotFound
	}
	return dto.ToCompanyResponse(company), nil
}

func (uc *CompanyUseCase) List(ctx context.Context, actor authz.Actor, limit, offset int) ([]dto.CompanyResponse, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	companies, err := uc.companies.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar empresas: %w", err)
	}
	return dto.ToCompanyResponses(companies), nil
}

func (uc *CompanyUseCase) Update(ctx context.Context, actor authz.Actor, id string, req dto.UpdateCompanyRequest) (dto.CompanyResponse, error) {
	if actor.Role != entity.RoleAdmin {
		return dto.CompanyResponse{}, domain.ErrForbidden
	}
	company, err := uc.companies.GetByID(ctx, id)
	if err != nil {
		return dto.CompanyResponse{}, fmt.Errorf("buscar empresa: %w", err)
	}
	if company == nil || company.DeletedAt != nil {
		return dto.CompanyResponse{}, domain.ErrNotFound
	}

	if req.Name != nil {
		if *req.Name == "" {
			return dto.CompanyResponse{}, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrValidation)
		}
		company.Name = *req.Name
	}
	if req.TaxID != nil {
		company.TaxID = *req.TaxID
	}
	if req.Active != nil {
		company.Active = *req.Active
	}
	company.UpdatedAt = NowFunc().UTC()

	if err := uc.companies.Update(ctx, company); err != nil {
		return dto.CompanyResponse{}, fmt.Errorf("actualizar empresa: %w", err)
	}
	return dto.ToCompanyResponse(company), nil
}

// Delete da de baja lógica la empresa. Sus usuarios pierden acceso en el
// siguiente refresh (el manager re-verifica la empresa del dueño).
func (uc *CompanyUseCase) Delete(ctx context.Context, actor authz.Actor, id string) error {
	if actor.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	company, err := uc.companies.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("buscar empresa: %w", err)
	}
	if company == nil || company.DeletedAt != nil {
		return domain.ErrNotFound
	}
	if err := uc.companies.SoftDelete(ctx, id, NowFunc().UTC()); err != nil {
		return fmt.Errorf("dar de baja empresa: %w", err)
	}
	uc.log.Info().Str("company_id", id).Msg("empresa dada de baja")
	return nil
}
