package credential_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
)

// fakeTokenStore implementa repository.CredentialTokenRepository en memoria.
// El mutex vive en el txRunner: una transacción a la vez, como el lock de
// fila de postgres en el UPDATE condicional.
type fakeTokenStore struct {
	tokens map[string]*entity.CredentialToken // por ID
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*entity.CredentialToken)}
}

func (s *fakeTokenStore) Create(_ context.Context, t *entity.CredentialToken) error {
	cp := *t
	s.tokens[t.ID] = &cp
	return nil
}

func (s *fakeTokenStore) SupersedeActive(_ context.Context, userID string, purpose entity.TokenPurpose, at time.Time) error {
	for _, t := range s.tokens {
		if t.UserID == userID && t.Purpose == purpose && t.IsLive(at) {
			used := at
			t.UsedAt = &used
		}
	}
	return nil
}

func (s *fakeTokenStore) ConsumeByHash(_ context.Context, tokenHash string, purpose entity.TokenPurpose, at time.Time) (*entity.CredentialToken, error) {
	for _, t := range s.tokens {
		if t.TokenHash == tokenHash && t.Purpose == purpose && t.IsLive(at) {
			used := at
			t.UsedAt = &used
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

// fakeTxRunner serializa transacciones y restaura el snapshot en rollback.
type fakeTxRunner struct {
	mu    sync.Mutex
	store *fakeTokenStore
}

func newFakeTxRunner() *fakeTxRunner {
	return &fakeTxRunner{store: newFakeTokenStore()}
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(users repository.UserRepository, sessions repository.SessionRepository, tokens repository.CredentialTokenRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]*entity.CredentialToken, len(r.store.tokens))
	for id, t := range r.store.tokens {
		cp := *t
		snapshot[id] = &cp
	}

	if err := fn(nil, nil, r.store); err != nil {
		r.store.tokens = snapshot
		return err
	}
	return nil
}

// liveFor cuenta los tokens vivos de un usuario/propósito en el instante dado.
func (r *fakeTxRunner) liveFor(userID string, purpose entity.TokenPurpose, at time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.store.tokens {
		if t.UserID == userID && t.Purpose == purpose && t.IsLive(at) {
			n++
		}
	}
	return n
}
