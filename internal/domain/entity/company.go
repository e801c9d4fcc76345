package entity

import "time"

// Company representa una empresa (tenant). La baja es lógica: una empresa
// eliminada invalida el acceso de todos sus usuarios en el siguiente uso.
type Company struct {
	ID        string
	Name      string
	TaxID     string // NIT / identificación tributaria
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsUsable indica si la empresa admite operaciones de sus usuarios.
func (c *Company) IsUsable() bool {
	return c.Active && c.DeletedAt == nil
}
