// seed crea el admin de plataforma inicial y, opcionalmente, una empresa de
// demostración con su director. Es idempotente: si el email del admin ya
// existe no hace nada.
//
// Variables: SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD (requeridas),
// SEED_DEMO_COMPANY (opcional, nombre de la empresa demo).
package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/PanelVentas-api/internal/application/auth"
	"github.com/jhoicas/PanelVentas-api/internal/domain/entity"
	"github.com/jhoicas/PanelVentas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/PanelVentas-api/pkg/config"
	"github.com/jhoicas/PanelVentas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("cargar configuración: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	email := auth.NormalizeEmail(os.Getenv("SEED_ADMIN_EMAIL"))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal().Msg("SEED_ADMIN_EMAIL y SEED_ADMIN_PASSWORD son requeridos")
	}
	if len(password) < auth.MinPasswordLen {
		log.Fatal().Int("min", auth.MinPasswordLen).Msg("password demasiado corta")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	companies := postgres.NewCompanyRepository(pool)

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar admin existente")
	}
	if existing != nil {
		log.Info().Str("email", email).Msg("el admin ya existe, nada que hacer")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hashear password")
	}
	hashStr := string(hash)

	now := auth.NowFunc()
	admin := &entity.User{
		ID:           uuid.NewString(),
		Role:         entity.RoleAdmin,
		Name:         "Administrador",
		Email:        &email,
		PasswordHash: &hashStr,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("crear admin")
	}
	log.Info().Str("user_id", admin.ID).Str("email", email).Msg("admin creado")

	demoName := os.Getenv("SEED_DEMO_COMPANY")
	if demoName == "" {
		return
	}
	company := &entity.Company{
		ID:        uuid.NewString(),
		Name:      demoName,
		TaxID:     "900000000-0",
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := companies.Create(ctx, company); err != nil {
		log.Fatal().Err(err).Msg("crear empresa demo")
	}
	log.Info().Str("company_id", company.ID).Str("name", demoName).Msg("empresa demo creada")
}
