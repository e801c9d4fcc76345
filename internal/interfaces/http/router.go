package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/PanelVentas-api/internal/application/auth"
	"github.com/jhoicas/PanelVentas-api/internal/application/conversation"
	"github.com/jhoicas/PanelVentas-api/internal/application/session"
	"github.com/jhoicas/PanelVentas-api/internal/application/usecase"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	Sessions       *session.Manager
	UserUC         *usecase.UserUseCase
	CompanyUC      *usecase.CompanyUseCase
	ProductUC      *usecase.ProductUseCase
	ClientUC       *usecase.ClientUseCase
	ConversationUC *conversation.UseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Sessions)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/activate", authHandler.Activate)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Webhook de leads (público: lo llama el conector de mensajería)
	conversationHandler := NewConversationHandler(deps.ConversationUC)
	api.Post("/webhooks/conversations", conversationHandler.Ingest)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users (protegido; el alcance por rol lo resuelve el use case)
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC, deps.AuthUC)
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
	users.Post("/:id/resend-invite", userHandler.ResendInvite)

	// Companies (lectura de la propia para todos; gestión solo admin)
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/:id", companyHandler.Get)
	adminOnly := RequireRole(string(entity.RoleAdmin))
	companies.Post("/", adminOnly, companyHandler.Create)
	companies.Get("/", adminOnly, companyHandler.List)
	companies.Put("/:id", adminOnly, companyHandler.Update)
	companies.Delete("/:id", adminOnly, companyHandler.Delete)

	// Products (protegido; edición restringida a director/gerente en el use case)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)

	// Conversations (protegido)
	conversations := protected.Group("/conversations")
	conversations.Get("/", conversationHandler.List)
	conversations.Put("/:id", conversationHandler.Update)

	// Clients georreferenciados (protegido)
	clients := protected.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/located", clientHandler.ListLocated)
}
