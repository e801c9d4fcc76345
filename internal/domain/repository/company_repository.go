package repository

import (
	"context"
	"time"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
