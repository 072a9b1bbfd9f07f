package service

import "errors"

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrCargaNoEncontrada      = errors.New("carga no encontrada")
	ErrEntregaNoEncontrada    = errors.New("entrega no encontrada")
	ErrEntregaInvalida        = errors.New("entrega inválida")
	ErrReglaNoEncontrada      = errors.New("regla de precio no encontrada")
	ErrReglaInvalida          = errors.New("regla de precio inválida")
	ErrPrecioBaseInvalido     = errors.New("precio base inválido")
	ErrPrecioBaseNoEncontrado = errors.New("no hay precio base activo para ese envase")
	ErrRecalculoEnCurso       = errors.New("ya hay un recálculo en curso para esta carga")
	ErrRangoFechasInvalido    = errors.New("rango de fechas inválido")
)

// ErrResultadoNoDisponible is returned when no recalculation result is cached for a carga.
var ErrResultadoNoDisponible = errors.New("no hay resultado de recálculo para esta carga")
