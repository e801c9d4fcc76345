package credential

import (
	"context"

	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción, entregando repositorios
// atados a esa transacción. Si fn retorna error se hace rollback; si no,
// commit. Lo implementa la infraestructura postgres.
type TxRunner interface {
	Run(ctx context.Context, fn func(users repository.UserRepository, sessions repository.SessionRepository, tokens repository.CredentialTokenRepository) error) error
}
