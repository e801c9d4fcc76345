package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Tipos de token. El claim de tipo impide presentar un access token donde se
// espera un refresh (y viceversa).
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// AccessClaims incluye los claims estándar JWT más los campos propios.
// Role y CompanyID van en el token para que el middleware RBAC decida sin
// consultar la DB; el access token es corto y no revocable antes de vencer.
type AccessClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"` // vacío para admin de plataforma
	Role      string `json:"role"`
}

// RefreshClaims llevan el id de la sesión: el refresh solo sirve contra la
// fila de sesión cuyo hash coincida.
type RefreshClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

// GenerateAccess genera el access token firmado (HS256).
func GenerateAccess(secret, userID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		TokenType: TypeAccess,
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// GenerateRefresh genera el refresh token firmado con el id de sesión embebido.
func GenerateRefresh(secret, sessionID, userID, issuer string, expHours int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// El jti hace único cada refresh aunque se rote dentro del mismo
			// segundo: el hash almacenado siempre cambia.
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expHours) * time.Hour)),
		},
		TokenType: TypeRefresh,
		SessionID: sessionID,
		UserID:    userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccess valida un access token y devuelve userID, companyID y role.
// Retorna error si el token es inválido, expirado, de otro tipo o con firma
// incorrecta.
func ParseAccess(secret, tokenString string) (userID, companyID, role string, err error) {
	var claims AccessClaims
	if err := parseInto(secret, tokenString, &claims); err != nil {
		return "", "", "", err
	}
	if claims.TokenType != TypeAccess {
		return "", "", "", fmt.Errorf("jwt: tipo de token inesperado")
	}
	return claims.UserID, claims.CompanyID, claims.Role, nil
}

// ParseRefresh valida un refresh token y devuelve sessionID y userID.
func ParseRefresh(secret, tokenString string) (sessionID, userID string, err error) {
	var claims RefreshClaims
	if err := parseInto(secret, tokenString, &claims); err != nil {
		return "", "", err
	}
	if claims.TokenType != TypeRefresh {
		return "", "", fmt.Errorf("jwt: tipo de token inesperado")
	}
	return claims.SessionID, claims.UserID, nil
}

func parseInto(secret, tokenString string, claims jwt.Claims) error {
	if secret == "" {
		return fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("claims inválidos")
	}
	return nil
}
