package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/PanelVentas-api/internal/application/authz"
	"github.com/jhoicas/PanelVentas-api/internal/application/dto"
	"github.com/jhoicas/PanelVentas-api/internal/domain"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
	"github.com/jhoicas/PanelVentas-api/pkg/logger"
)

// ProductUseCase gestiona el catálogo de la empresa del actor. Director y
// gerente mantienen el catálogo; el resto solo lo consulta.
type ProductUseCase struct {
	products repository.ProductRepository
	log      *logger.Logger
}

func NewProductUseCase(products repository.ProductRepository, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{products: products, log: log.Component("products")}
}

func canEditCatalog(role entity.Role) bool {
	return role == entity.RoleDirector || role == entity.RoleGerente
}

func (uc *ProductUseCase) Create(ctx context.Context, actor authz.Actor, req dto.CreateProductRequest) (dto.ProductResponse, error) {
	if !canEditCatalog(actor.Role) {
		return dto.ProductResponse{}, domain.ErrForbidden
	}
	if req.Name == "" {
		return dto.ProductResponse{}, fmt.Errorf("%w: el nombre es requerido", domain.ErrValidation)
	}
	if req.Price.LessThan(decimal.Zero) {
		return dto.ProductResponse{}, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrValidation)
	}

	now := NowFunc().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   actor.CompanyID,
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.products.Create(ctx, product); err != nil {
		return dto.ProductResponse{}, fmt.Errorf("crear producto: %w", err)
	}
	uc.log.Info().Str("product_id", product.ID).Msg("producto creado")
	return dto.ToProductResponse(product), nil
}

func (uc *ProductUseCase) Get(ctx context.Context, actor authz.Actor, id string) (dto.ProductResponse, error) {
	product, err := uc.usableProduct(ctx, actor, id)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	return dto.ToProductResponse(product), nil
}

func (uc *ProductUseCase) List(ctx context.Context, actor authz.Actor, limit, offset int) ([]dto.ProductResponse, error) {
	products, err := uc.products.ListByCompany(ctx, actor.CompanyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	return dto.ToProductResponses(products), nil
}

func (uc *ProductUseCase) Update(ctx context.Context, actor authz.Actor, id string, req dto.UpdateProductRequest) (dto.ProductResponse, error) {
	if !canEditCatalog(actor.Role) {
		return dto.ProductResponse{}, domain.ErrForbidden
	}
	product, err := uc.usableProduct(ctx, actor, id)
	if err != nil {
		return dto.ProductResponse{}, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return dto.ProductResponse{}, fmt.Errorf("%w: el nombre no puede quedar vacío", domain.ErrValidation)
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.LessThan(decimal.Zero) {
			return dto.ProductResponse{}, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrValidation)
		}
		product.Price = *req.Price
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	product.UpdatedAt = NowFunc().UTC()

	if err := uc.products.Update(ctx, product); err != nil {
		return dto.ProductResponse{}, fmt.Errorf("actualizar producto: %w", err)
	}
	return dto.ToProductResponse(product), nil
}

// usableProduct aplica el aislamiento multi-tenant: un producto de otra
// empresa es indistinguible de uno inexistente.
func (uc *ProductUseCase) usableProduct(ctx context.Context, actor authz.Actor, id string) (*entity.Product, error) {
	product, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("buscar producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if actor.Role != entity.RoleAdmin && product.CompanyID != actor.CompanyID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}
