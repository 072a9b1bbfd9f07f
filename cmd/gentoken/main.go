// gentoken issues a signed JWT for the liquidación API.
//
// Usage:
//
//	go run ./cmd/gentoken -usuario ana -rol administrador
//	go run ./cmd/gentoken -usuario capataz -rol supervisor -horas 12
//
// The signing secret is read from JWT_SECRET (env or .env), same as the server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"liquidacion/internal/config"
	"liquidacion/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func main() {
	usuario := flag.String("usuario", "", "nombre de usuario (obligatorio)")
	rol := flag.String("rol", middleware.RolSupervisor, "administrador | supervisor")
	horas := flag.Int("horas", 0, "validez en horas (0 = JWT_EXPIRATION_HOURS)")
	flag.Parse()

	if *usuario == "" {
		fmt.Fprintln(os.Stderr, "gentoken: -usuario es obligatorio")
		os.Exit(2)
	}
	if *rol != middleware.RolAdministrador && *rol != middleware.RolSupervisor {
		fmt.Fprintf(os.Stderr, "gentoken: rol desconocido %q\n", *rol)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "gentoken:", err)
		os.Exit(1)
	}
	validez := *horas
	if validez <= 0 {
		validez = cfg.JWTExpirationHours
	}

	now := time.Now()
	token, err := middleware.FirmarToken(cfg.JWTSecret, middleware.JWTClaims{
		UserID:   uuid.NewString(),
		Username: *usuario,
		Rol:      *rol,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   *usuario,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(validez) * time.Hour)),
		},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "gentoken:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
