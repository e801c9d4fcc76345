// migrate aplica las migraciones SQL de ./migrations contra la base
// configurada (DATABASE_URL o variables DB_*).
//
// Uso: go run ./cmd/migrate [up|down]
// Por defecto aplica "up".
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/jhoicas/PanelVentas-api/pkg/config"
	"github.com/jhoicas/PanelVentas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	m, err := migrate.New("file://migrations", cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("abrir migraciones")
	}
	defer m.Close()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	default:
		log.Fatal().Str("direction", direction).Msg("dirección desconocida, use up o down")
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Str("direction", direction).Msg("aplicar migraciones")
	}

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		log.Fatal().Err(verr).Msg("leer versión de esquema")
	}
	log.Info().
		Uint("version", version).
		Bool("dirty", dirty).
		Str("direction", direction).
		Msg("migraciones aplicadas")
}
