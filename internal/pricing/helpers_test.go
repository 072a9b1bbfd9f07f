package pricing

import (
	"time"

	"liquidacion/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func str(s string) *string { return &s }

func id(n int64) *int64 { return &n }

func fecha(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func regla(modo model.ModoPrecio, monto float64, prioridad int, dims model.Dimensiones) model.ReglaPrecio {
	return model.ReglaPrecio{
		ID:          uuid.New(),
		Dimensiones: dims,
		Modo:        modo,
		Monto:       decimal.NewFromFloat(monto),
		Prioridad:   prioridad,
		Activa:      true,
	}
}

func entrega(envase string, nro int) *model.Entrega {
	return &model.Entrega{
		ID:           uuid.New(),
		Dimensiones:  model.Dimensiones{Envase: str(envase)},
		IDTrabajador: id(1),
		NroEnvases:   nro,
	}
}

func basqueta(precio float64) []model.PrecioBase {
	return []model.PrecioBase{{ID: uuid.New(), Envase: "Basqueta", Precio: decimal.NewFromFloat(precio), Activo: true}}
}
