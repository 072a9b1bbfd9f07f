package service

import (
	"context"
	"fmt"

	"liquidacion/internal/pricing"
	"liquidacion/internal/repository"
)

// cargarSnapshot reads active rules and base prices once.
func cargarSnapshot(ctx context.Context, reglas repository.ReglaPrecioRepository, bases repository.PrecioBaseRepository) (*pricing.Snapshot, error) {
	activas, err := reglas.ListarActivas(ctx)
	if err != nil {
		return nil, fmt.Errorf("leyendo reglas de precio: %w", err)
	}
	precios, err := bases.ListarActivos(ctx)
	if err != nil {
		return nil, fmt.Errorf("leyendo precios base: %w", err)
	}
	return pricing.NuevoSnapshot(activas, precios), nil
}
