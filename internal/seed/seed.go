// Package seed loads base prices and pricing rules from a YAML file and
// applies them through the same services the HTTP API uses.
//
// File layout:
//
//	precios_base:
//	  - envase: BINS
//	    precio: "15000"
//	reglas:
//	  - nombre: Bins Cerezas Lapins
//	    envase: BINS
//	    especie: Cerezas
//	    variedad: Lapins
//	    modo: OVERRIDE
//	    monto: "18000"
//	    prioridad: 10
//	    fecha_inicio: 2024-12-01
//	    dias_semana: [6, 7]
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"liquidacion/internal/dto"
	"liquidacion/internal/model"
	"liquidacion/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type Archivo struct {
	PreciosBase []PrecioBase `yaml:"precios_base"`
	Reglas      []Regla      `yaml:"reglas"`
}

type PrecioBase struct {
	Envase string `yaml:"envase"`
	Precio string `yaml:"precio"`
	Activo *bool  `yaml:"activo"`
}

type Regla struct {
	ID     *string `yaml:"id"`
	Nombre *string `yaml:"nombre"`

	NombreCosecha    *string `yaml:"nombre_cosecha"`
	NombreCampo      *string `yaml:"nombre_campo"`
	CecoCampo        *string `yaml:"ceco_campo"`
	EtiquetasCampo   *string `yaml:"etiquetas_campo"`
	Cuartel          *string `yaml:"cuartel"`
	CecoCuartel      *string `yaml:"ceco_cuartel"`
	EtiquetasCuartel *string `yaml:"etiquetas_cuartel"`
	Especie          *string `yaml:"especie"`
	Variedad         *string `yaml:"variedad"`
	Contratista      *string `yaml:"contratista"`
	IDContratista    *int64  `yaml:"id_contratista"`
	Envase           *string `yaml:"envase"`
	Usuario          *string `yaml:"usuario"`
	IDUsuario        *int64  `yaml:"id_usuario"`
	Cuadrilla        *string `yaml:"cuadrilla"`

	FechaInicio *string `yaml:"fecha_inicio"`
	FechaFin    *string `yaml:"fecha_fin"`
	DiasSemana  []int   `yaml:"dias_semana"`
	Modo        string  `yaml:"modo"`
	Monto       string  `yaml:"monto"`
	Prioridad   int     `yaml:"prioridad"`
	Activa      *bool   `yaml:"activa"`
}

// Resumen reports what Aplicar wrote.
type Resumen struct {
	PreciosBase int
	Reglas      int
	Conflictos  []string
}

// Leer decodes a seed file. Unknown keys are rejected so a misspelled
// dimension does not silently become a wildcard.
func Leer(r io.Reader) (*Archivo, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var a Archivo
	if err := dec.Decode(&a); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return &a, nil
}

func LeerArchivo(path string) (*Archivo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	defer f.Close()
	return Leer(f)
}

// Requests converts the file into the API request bodies.
func (a *Archivo) Requests() (dto.GuardarPreciosBaseRequest, dto.GuardarReglasRequest, error) {
	var precios dto.GuardarPreciosBaseRequest
	for i, p := range a.PreciosBase {
		precio, err := decimal.NewFromString(p.Precio)
		if err != nil {
			return precios, dto.GuardarReglasRequest{}, fmt.Errorf("seed: precios_base[%d]: precio %q: %w", i, p.Precio, err)
		}
		precios.Items = append(precios.Items, dto.PrecioBaseItem{Envase: p.Envase, Precio: precio, Activo: p.Activo})
	}

	var reglas dto.GuardarReglasRequest
	for i, r := range a.Reglas {
		monto, err := decimal.NewFromString(r.Monto)
		if err != nil {
			return precios, reglas, fmt.Errorf("seed: reglas[%d]: monto %q: %w", i, r.Monto, err)
		}
		reglas.Upsert = append(reglas.Upsert, dto.ReglaPrecioRequest{
			ID:          r.ID,
			Nombre:      r.Nombre,
			Dimensiones: r.dimensiones(),
			FechaInicio: r.FechaInicio,
			FechaFin:    r.FechaFin,
			DiasSemana:  r.DiasSemana,
			Modo:        r.Modo,
			Monto:       monto,
			Prioridad:   r.Prioridad,
			Activa:      r.Activa,
		})
	}
	return precios, reglas, nil
}

func (r Regla) dimensiones() model.Dimensiones {
	return model.Dimensiones{
		NombreCosecha:    r.NombreCosecha,
		NombreCampo:      r.NombreCampo,
		CecoCampo:        r.CecoCampo,
		EtiquetasCampo:   r.EtiquetasCampo,
		Cuartel:          r.Cuartel,
		CecoCuartel:      r.CecoCuartel,
		EtiquetasCuartel: r.EtiquetasCuartel,
		Especie:          r.Especie,
		Variedad:         r.Variedad,
		Contratista:      r.Contratista,
		IDContratista:    r.IDContratista,
		Envase:           r.Envase,
		Usuario:          r.Usuario,
		IDUsuario:        r.IDUsuario,
		Cuadrilla:        r.Cuadrilla,
	}
}

// Aplicar writes base prices first, then rules. Rule conflicts are reported,
// not treated as failures.
func Aplicar(ctx context.Context, a *Archivo, precios service.PrecioBaseService, reglas service.ReglaService) (*Resumen, error) {
	reqPrecios, reqReglas, err := a.Requests()
	if err != nil {
		return nil, err
	}

	res := &Resumen{}
	if len(reqPrecios.Items) > 0 {
		out, err := precios.Guardar(ctx, reqPrecios)
		if err != nil {
			return nil, fmt.Errorf("seed: precios base: %w", err)
		}
		res.PreciosBase = len(out.Data)
	}
	if len(reqReglas.Upsert) > 0 {
		out, err := reglas.Guardar(ctx, reqReglas)
		if err != nil {
			return nil, fmt.Errorf("seed: reglas: %w", err)
		}
		res.Reglas = len(out.Guardadas)
		res.Conflictos = out.Conflictos
	}

	for _, c := range res.Conflictos {
		log.Warn().Str("conflicto", c).Msg("seed: conflicto de prioridad")
	}
	return res, nil
}
