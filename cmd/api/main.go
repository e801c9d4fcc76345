package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/PanelVentas-api/internal/application/auth"
	"github.com/jhoicas/PanelVentas-api/internal/application/authz"
	"github.com/jhoicas/PanelVentas-api/internal/application/conversation"
	"github.com/jhoicas/PanelVentas-api/internal/application/credential"
	"github.com/jhoicas/PanelVentas-api/internal/application/session"
	"github.com/jhoicas/PanelVentas-api/internal/application/usecase"
	"github.com/jhoicas/PanelVentas-api/internal/infrastructure/email"
	"github.com/jhoicas/PanelVentas-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/PanelVentas-api/internal/interfaces/http"
	"github.com/jhoicas/PanelVentas-api/pkg/config"
	"github.com/jhoicas/PanelVentas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	conversationRepo := postgres.NewConversationRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	scopes := authz.NewScopeResolver(userRepo)
	assigner := authz.NewHierarchyAssigner(userRepo)

	ledger := credential.NewLedger(txRunner,
		time.Duration(cfg.Tokens.ActivationTTLHours)*time.Hour,
		time.Duration(cfg.Tokens.ResetTTLMinutes)*time.Minute,
	)
	sessions := session.NewManager(sessionRepo, userRepo, companyRepo, session.Config{
		Secret:           cfg.JWT.Secret,
		Issuer:           cfg.JWT.Issuer,
		AccessExpMinutes: cfg.JWT.AccessExpMinutes,
		RefreshExpHours:  cfg.JWT.RefreshExpHours,
	})
	notifier := email.NewNotifier(cfg.SMTP, cfg.App)
	authUC := auth.NewUseCase(userRepo, companyRepo, ledger, sessions, scopes, notifier, log)

	userUC := usecase.NewUserUseCase(userRepo, companyRepo, scopes, assigner, authUC, sessions, log)
	companyUC := usecase.NewCompanyUseCase(companyRepo, log)
	productUC := usecase.NewProductUseCase(productRepo, log)
	clientUC := usecase.NewClientUseCase(clientRepo, userRepo, scopes, log)
	conversationUC := conversation.NewUseCase(conversationRepo, companyRepo, userRepo, scopes, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "PanelVentas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		Sessions:       sessions,
		UserUC:         userUC,
		CompanyUC:      companyUC,
		ProductUC:      productUC,
		ClientUC:       clientUC,
		ConversationUC: conversationUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
