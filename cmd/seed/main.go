// seed loads base prices and pricing rules from a YAML file into the database.
//
// Usage:
//
//	go run ./cmd/seed -f reglas.yaml
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"liquidacion/internal/config"
	"liquidacion/internal/infra"
	"liquidacion/internal/repository"
	"liquidacion/internal/seed"
	"liquidacion/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	path := flag.String("f", "seed.yaml", "archivo YAML con precios_base y reglas")
	flag.Parse()

	archivo, err := seed.LeerArchivo(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo leer el archivo")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	precios := service.NewPrecioBaseService(repository.NewPrecioBaseRepository(db))
	reglas := service.NewReglaService(repository.NewReglaPrecioRepository(db))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	res, err := seed.Aplicar(ctx, archivo, precios, reglas)
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().
		Int("precios_base", res.PreciosBase).
		Int("reglas", res.Reglas).
		Int("conflictos", len(res.Conflictos)).
		Msg("seed aplicado")
}
