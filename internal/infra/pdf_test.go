package infra

import (
	"bytes"
	"os"
	"testing"
	"time"

	"liquidacion/internal/dto"
	"liquidacion/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func datosLiquidacion() LiquidacionPDF {
	return LiquidacionPDF{
		Carga: &model.Carga{ID: uuid.New(), NombreArchivo: "cosecha_marzo.xlsx", Filas: 3},
		PorTrabajador: []dto.TotalTrabajador{
			{IDTrab: 10, NombreTrab: "Juan Núñez", Monto: decimal.NewFromInt(1200)},
			{IDTrab: 11, NombreTrab: "Sin nombre", Monto: decimal.NewFromInt(800)},
		},
		PorFecha:   []dto.TotalFecha{{Fecha: "2024-03-04", Monto: decimal.NewFromInt(2000)}},
		GeneradoEn: time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC),
	}
}

func TestEscribirLiquidacionPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EscribirLiquidacionPDF(&buf, datosLiquidacion()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestGenerarLiquidacionPDF_CreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/pdfs"
	path, err := GenerarLiquidacionPDF(datosLiquidacion(), dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
