package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PanelVentas-api/internal/application/auth"
	"github.com/jhoicas/PanelVentas-api/internal/application/dto"
	"github.com/jhoicas/PanelVentas-api/internal/application/session"
)

// AuthHandler maneja login, refresh, logout y el ciclo de credenciales
// (activación de cuenta y recuperación de password).
type AuthHandler struct {
	uc       *auth.UseCase
	sessions *session.Manager
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.UseCase, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{uc: uc, sessions: sessions}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email y password son requeridos"})
	}
	tokens, err := h.uc.Login(c.Context(), in.Email, in.Password, c.Get("User-Agent"), c.IP())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToTokenResponse(tokens))
}

// Refresh godoc
// @Summary      Rotar sesión con refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RefreshRequest  true  "refresh_token"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "refresh_token es requerido"})
	}
	tokens, err := h.sessions.Refresh(c.Context(), in.RefreshToken)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToTokenResponse(tokens))
}

// Logout godoc
// @Summary      Cerrar sesión (revoca el refresh token)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LogoutRequest  true  "refresh_token"
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var in dto.LogoutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "refresh_token es requerido"})
	}
	if err := h.sessions.Revoke(c.Context(), in.RefreshToken); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activate godoc
// @Summary      Activar cuenta invitada y definir password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ActivateRequest  true  "token, password"
// @Success      200   {object}  dto.TokenResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/auth/activate [post]
func (h *AuthHandler) Activate(c *fiber.Ctx) error {
	var in dto.ActivateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Token == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "token y password son requeridos"})
	}
	tokens, err := h.uc.Activate(c.Context(), in.Token, in.Password, c.Get("User-Agent"), c.IP())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(dto.ToTokenResponse(tokens))
}

// ForgotPassword godoc
// @Summary      Solicitar enlace de recuperación de password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      204
// @Router       /api/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email es requerido"})
	}
	// Siempre 204: no se revela si el email existe.
	if err := h.uc.ForgotPassword(c.Context(), in.Email); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResetPassword godoc
// @Summary      Definir nueva password con token de recuperación
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetPasswordRequest  true  "token, password"
// @Success      204
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Token == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "token y password son requeridos"})
	}
	if err := h.uc.ResetPassword(c.Context(), in.Token, in.Password); err != nil {
		return domainError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
