package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/PanelVentas-api/pkg/jwt"
)

const (
	testSecret    = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testSessionID = "00000000-0000-0000-0000-000000000003"
	testIssuer    = "panel-ventas-test"
)

func TestAccess_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.GenerateAccess(testSecret, testUserID, testCompanyID, "gerente", testIssuer, 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, companyID, role, err := pkgjwt.ParseAccess(testSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testCompanyID, companyID)
	assert.Equal(t, "gerente", role)
}

func TestRefresh_GenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.GenerateRefresh(testSecret, testSessionID, testUserID, testIssuer, 24)
	require.NoError(t, err)

	sessionID, userID, err := pkgjwt.ParseRefresh(testSecret, tok)
	require.NoError(t, err)

	assert.Equal(t, testSessionID, sessionID)
	assert.Equal(t, testUserID, userID)
}

// Un refresh token no debe aceptarse donde se espera un access (y viceversa).
func TestParse_TipoCruzadoRechazado(t *testing.T) {
	refresh, err := pkgjwt.GenerateRefresh(testSecret, testSessionID, testUserID, testIssuer, 24)
	require.NoError(t, err)
	_, _, _, err = pkgjwt.ParseAccess(testSecret, refresh)
	assert.Error(t, err, "refresh token no debe pasar como access")

	access, err := pkgjwt.GenerateAccess(testSecret, testUserID, testCompanyID, "admin", testIssuer, 15)
	require.NoError(t, err)
	_, _, err = pkgjwt.ParseRefresh(testSecret, access)
	assert.Error(t, err, "access token no debe pasar como refresh")
}

func TestAccess_TokenExpirado_RetornaError(t *testing.T) {
	// Token con expiración -1 minuto (ya expirado)
	tok, err := pkgjwt.GenerateAccess(testSecret, testUserID, testCompanyID, "admin", testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.ParseAccess(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestAccess_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.GenerateAccess(testSecret, testUserID, testCompanyID, "admin", testIssuer, 15)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.ParseAccess("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
