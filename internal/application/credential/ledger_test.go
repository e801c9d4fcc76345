package credential_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/PanelVentas-api/internal/application/credential"
	"github.com/jhoicas/PanelVentas-api/internal/domain"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/domain/repository"
)

const userID = "00000000-0000-0000-0000-0000000000aa"

func newLedger(tx *fakeTxRunner) *credential.Ledger {
	return credential.NewLedger(tx, 72*time.Hour, 30*time.Minute)
}

func TestIssue_DevuelveTextoEnClaroYGuardaSoloElHash(t *testing.T) {
	tx := newFakeTxRunner()
	l := newLedger(tx)

	plaintext, expiresAt, err := l.Issue(context.Background(), userID, entity.PurposeActivation)
	require.NoError(t, err)
	assert.Len(t, plaintext, 64, "32 bytes en hex")
	assert.True(t, expiresAt.After(time.Now()))

	for _, tok := range tx.store.tokens {
		assert.NotEqual(t, plaintext, tok.TokenHash, "el texto en claro no debe persistirse")
		assert.Equal(t, credential.HashToken(plaintext), tok.TokenHash)
	}
}

func TestIssue_SupersedeInvalidaElTokenAnterior(t *testing.T) {
	tx := newFakeTxRunner()
	l := newLedger(tx)
	ctx := context.Background()

	primero, _, err := l.Issue(ctx, userID, entity.PurposeReset)
	require.NoError(t, err)
	segundo, _, err := l.Issue(ctx, userID, entity.PurposeReset)
	require.NoError(t, err)

	assert.Equal(t, 1, tx.liveFor(userID, entity.PurposeReset, time.Now()),
		"nunca más de un token vivo por usuario y propósito")

	// El primero ya no canjea; el segundo sí.
	err = l.Consume(ctx, entity.PurposeReset, primero, noop)
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)
	err = l.Consume(ctx, entity.PurposeReset, segundo, noop)
	assert.NoError(t, err)
}

func TestIssue_PropositosIndependientes(t *testing.T) {
	tx := newFakeTxRunner()
	l := newLedger(tx)
	ctx := context.Background()

	activacion, _, err := l.Issue(ctx, userID, entity.PurposeActivation)
	require.NoError(t, err)
	_, _, err = l.Issue(ctx, userID, entity.PurposeReset)
	require.NoError(t, err)

	// Emitir un reset no invalida el token de activación.
	err = l.Consume(ctx, entity.PurposeActivation, activacion, noop)
	assert.NoError(t, err)
}

func TestConsume_SegundoCanjeRechazado(t *testing.T) {
	tx := newFakeTxRunner()
	l := newLedger(tx)
	ctx := context.Background()

	plaintext, _, err := l.Issue(ctx, userID, entity.PurposeActivation)
	require.NoError(t, err)

	require.NoError(t, l.Consume(ctx, entity.PurposeActivation, plaintext, noop))
	err = l.Consume(ctx, entity.PurposeActivation, plaintext, noop)
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)
}

func TestConsume_PropositoEquivocadoRechazado(t *testing.T) {
	tx := newFakeTxRunner()
	l := newLedger(tx)
	ctx := context.Background()

	plaintext, _, err := l.Issue(ctx, userID, entity.PurposeActivation)
	require.NoError(t, err)

	// Un token de activación no canjea como reset.
	err = l.Consume(ctx, entity.PurposeReset, plaintext, noop)
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)
}

func TestConsume_TokenExpiradoRechazado(t *testing.T) {
	tx := newFakeTxRunner()
	l := newLedger(tx)
	ctx := context.Background()

	base := time.Now().UTC()
	credential.NowFunc = func() time.Time { return base }
	defer func() { credential.NowFunc = time.Now }()

	plaintext, _, err := l.Issue(ctx, userID, entity.PurposeReset)
	require.NoError(t, err)

	// 31 minutos después, el reset (TTL 30m) ya venció.
	credential.NowFunc = func() time.Time { return base.Add(31 * time.Minute) }
	err = l.Consume(ctx, entity.PurposeReset, plaintext, noop)
	assert.ErrorIs(t, err, domain.ErrInvalidOrExpiredToken)
}

func TestConsume_RollbackDejaElTokenSinUsar(t *testing.T) {
	tx := newFakeTxRunner()
	l := newLedger(tx)
	ctx := context.Background()

	plaintext, _, err := l.Issue(ctx, userID, entity.PurposeActivation)
	require.NoError(t, err)

	fallo := errors.New("fallo del callback")
	err = l.Consume(ctx, entity.PurposeActivation, plaintext, func(*entity.CredentialToken, repository.UserRepository, repository.SessionRepository) error {
		return fallo
	})
	assert.ErrorIs(t, err, fallo)

	// El rollback deja el token canjeable: un segundo intento funciona.
	err = l.Consume(ctx, entity.PurposeActivation, plaintext, noop)
	assert.NoError(t, err)
}

// Dos canjes concurrentes del mismo token: exactamente uno gana.
func TestConsume_ConcurrenciaExactamenteUnGanador(t *testing.T) {
	tx := newFakeTxRunner()
	l := newLedger(tx)
	ctx := context.Background()

	plaintext, _, err := l.Issue(ctx, userID, entity.PurposeReset)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- l.Consume(ctx, entity.PurposeReset, plaintext, noop)
		}()
	}
	wg.Wait()
	close(results)

	var oks, rechazos int
	for err := range results {
		if err == nil {
			oks++
		} else if errors.Is(err, domain.ErrInvalidOrExpiredToken) {
			rechazos++
		}
	}
	assert.Equal(t, 1, oks, "exactamente un canje debe ganar")
	assert.Equal(t, 1, rechazos)
}

func noop(*entity.CredentialToken, repository.UserRepository, repository.SessionRepository) error {
	return nil
}
