package service_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"liquidacion/internal/dto"
	"liquidacion/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory EntregaRepository ──────────────────────────────────────────────

type stubEntregaRepo struct {
	mu       sync.Mutex
	entregas []model.Entrega
	// fallan makes ActualizarPrecios reject any write that includes these ids.
	fallan     map[uuid.UUID]bool
	escrituras int
	errListar  error
	errTotales error
	resumenes  int
}

func newStubEntregaRepo(entregas ...model.Entrega) *stubEntregaRepo {
	return &stubEntregaRepo{entregas: entregas, fallan: map[uuid.UUID]bool{}}
}

func (r *stubEntregaRepo) ListarPorCarga(_ context.Context, cargaID uuid.UUID) ([]model.Entrega, error) {
	if r.errListar != nil {
		return nil, r.errListar
	}
	var out []model.Entrega
	for _, e := range r.entregas {
		if e.CargaID == cargaID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubEntregaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Entrega, error) {
	for i := range r.entregas {
		if r.entregas[i].ID == id {
			e := r.entregas[i]
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEntregaRepo) FindByIDEntrega(_ context.Context, idEntrega string) (*model.Entrega, error) {
	for i := range r.entregas {
		if e := r.entregas[i]; e.IDEntrega != nil && *e.IDEntrega == idEntrega {
			return &e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubEntregaRepo) ListarPorTrabajadorFecha(_ context.Context, idTrabajador int64, fecha time.Time) ([]model.Entrega, error) {
	var out []model.Entrega
	for _, e := range r.entregas {
		if e.IDTrabajador != nil && *e.IDTrabajador == idTrabajador &&
			e.Fecha != nil && e.Fecha.Format(time.DateOnly) == fecha.Format(time.DateOnly) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *stubEntregaRepo) ActualizarPrecios(_ context.Context, precios []model.PrecioCalculado) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.escrituras++
	for _, p := range precios {
		if r.fallan[p.EntregaID] {
			return fmt.Errorf("entrega %s: %w", p.EntregaID, gorm.ErrRecordNotFound)
		}
	}
	for _, p := range precios {
		for i := range r.entregas {
			if r.entregas[i].ID == p.EntregaID {
				r.entregas[i].PrecioUnitario = p.PrecioUnitario
				r.entregas[i].Monto = p.Monto
			}
		}
	}
	return nil
}

func (r *stubEntregaRepo) TotalesPorTrabajador(_ context.Context, cargaID uuid.UUID) ([]dto.TotalTrabajador, error) {
	if r.errTotales != nil {
		return nil, r.errTotales
	}
	totales := map[int64]*dto.TotalTrabajador{}
	for _, e := range r.entregas {
		if e.CargaID != cargaID || !e.Liquidable() {
			continue
		}
		t, ok := totales[*e.IDTrabajador]
		if !ok {
			nombre := "Sin nombre"
			if e.NombreTrabajador != nil {
				nombre = *e.NombreTrabajador
			}
			t = &dto.TotalTrabajador{IDTrab: *e.IDTrabajador, NombreTrab: nombre, Monto: decimal.Zero}
			totales[*e.IDTrabajador] = t
		}
		t.Monto = t.Monto.Add(e.Monto)
	}
	out := make([]dto.TotalTrabajador, 0, len(totales))
	for _, t := range totales {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IDTrab < out[j].IDTrab })
	return out, nil
}

func (r *stubEntregaRepo) TotalesPorFecha(_ context.Context, cargaID uuid.UUID) ([]dto.TotalFecha, error) {
	totales := map[string]decimal.Decimal{}
	for _, e := range r.entregas {
		if e.CargaID != cargaID || !e.Liquidable() || e.Fecha == nil {
			continue
		}
		k := e.Fecha.Format(time.DateOnly)
		totales[k] = totales[k].Add(e.Monto)
	}
	out := make([]dto.TotalFecha, 0, len(totales))
	for k, v := range totales {
		out = append(out, dto.TotalFecha{Fecha: k, Monto: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha < out[j].Fecha })
	return out, nil
}

func (r *stubEntregaRepo) ResumenEnvases(_ context.Context, cargaID uuid.UUID) ([]dto.EnvaseResumen, int64, error) {
	sumas := map[string]int64{}
	var total int64
	for _, e := range r.entregas {
		if e.CargaID != cargaID {
			continue
		}
		total++
		envase := "Sin especificar"
		if e.Envase != nil {
			envase = *e.Envase
		}
		sumas[envase] += int64(e.NroEnvases)
	}
	var out []dto.EnvaseResumen
	for k, v := range sumas {
		out = append(out, dto.EnvaseResumen{Envase: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Envase < out[j].Envase })
	return out, total, nil
}

func (r *stubEntregaRepo) ResumenTrabajadores(_ context.Context, desde, hasta time.Time, idTrabajador *int64) ([]dto.ResumenTrabajadorDia, error) {
	r.resumenes++
	type clave struct {
		fecha string
		trab  int64
	}
	grupos := map[clave]*dto.ResumenTrabajadorDia{}
	envases := map[clave][]string{}
	d, h := desde.Format(time.DateOnly), hasta.Format(time.DateOnly)
	for _, e := range r.entregas {
		if !e.Liquidable() || e.Fecha == nil {
			continue
		}
		f := e.Fecha.Format(time.DateOnly)
		if f < d || f > h || (idTrabajador != nil && *e.IDTrabajador != *idTrabajador) {
			continue
		}
		k := clave{f, *e.IDTrabajador}
		g, ok := grupos[k]
		if !ok {
			g = &dto.ResumenTrabajadorDia{Fecha: f, IDTrab: k.trab, NombreTrab: "Sin nombre", Monto: decimal.Zero}
			grupos[k] = g
		}
		if !slices.Contains(envases[k], *e.Envase) {
			envases[k] = append(envases[k], *e.Envase)
		}
		g.TotalEnvases += int64(e.NroEnvases)
		g.Monto = g.Monto.Add(e.Monto)
	}
	out := make([]dto.ResumenTrabajadorDia, 0, len(grupos))
	for k, g := range grupos {
		slices.Sort(envases[k])
		g.TiposEnvase = strings.Join(envases[k], ", ")
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Fecha != out[j].Fecha {
			return out[i].Fecha < out[j].Fecha
		}
		return out[i].IDTrab < out[j].IDTrab
	})
	return out, nil
}

func (r *stubEntregaRepo) buscar(id uuid.UUID) model.Entrega {
	for _, e := range r.entregas {
		if e.ID == id {
			return e
		}
	}
	panic("entrega inexistente")
}

// ── In-memory CargaRepository ────────────────────────────────────────────────

type stubCargaRepo struct {
	cargas   map[uuid.UUID]*model.Carga
	entregas *stubEntregaRepo
}

func newStubCargaRepo(entregas *stubEntregaRepo) *stubCargaRepo {
	return &stubCargaRepo{cargas: map[uuid.UUID]*model.Carga{}, entregas: entregas}
}

func (r *stubCargaRepo) CrearConEntregas(_ context.Context, c *model.Carga, entregas []model.Entrega) error {
	c.ID = uuid.New()
	c.Filas = len(entregas)
	c.CreatedAt = time.Now()
	r.cargas[c.ID] = c
	for i := range entregas {
		entregas[i].ID = uuid.New()
		entregas[i].CargaID = c.ID
	}
	if r.entregas != nil {
		r.entregas.entregas = append(r.entregas.entregas, entregas...)
	}
	return nil
}

func (r *stubCargaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Carga, error) {
	c, ok := r.cargas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCargaRepo) Listar(_ context.Context) ([]model.Carga, error) {
	var out []model.Carga
	for _, c := range r.cargas {
		out = append(out, *c)
	}
	return out, nil
}

// ── In-memory ReglaPrecioRepository ──────────────────────────────────────────

type stubReglaRepo struct {
	reglas []model.ReglaPrecio
	err    error
}

func (r *stubReglaRepo) Listar(_ context.Context) ([]model.ReglaPrecio, error) {
	if r.err != nil {
		return nil, r.err
	}
	return slices.Clone(r.reglas), nil
}

func (r *stubReglaRepo) ListarActivas(_ context.Context) ([]model.ReglaPrecio, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []model.ReglaPrecio
	for _, regla := range r.reglas {
		if regla.Activa {
			out = append(out, regla)
		}
	}
	return out, nil
}

func (r *stubReglaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ReglaPrecio, error) {
	for i := range r.reglas {
		if r.reglas[i].ID == id {
			regla := r.reglas[i]
			return &regla, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubReglaRepo) Aplicar(_ context.Context, eliminar []uuid.UUID, guardar []*model.ReglaPrecio) (int64, error) {
	antes := len(r.reglas)
	r.reglas = slices.DeleteFunc(r.reglas, func(regla model.ReglaPrecio) bool {
		return slices.Contains(eliminar, regla.ID)
	})
	eliminadas := int64(antes - len(r.reglas))
	for _, g := range guardar {
		if g.CreatedAt.IsZero() {
			g.CreatedAt = time.Now()
		}
		i := slices.IndexFunc(r.reglas, func(regla model.ReglaPrecio) bool { return regla.ID == g.ID })
		if i >= 0 {
			r.reglas[i] = *g
		} else {
			r.reglas = append(r.reglas, *g)
		}
	}
	return eliminadas, nil
}

func (r *stubReglaRepo) CambiarEstado(_ context.Context, id uuid.UUID, activa bool) error {
	for i := range r.reglas {
		if r.reglas[i].ID == id {
			r.reglas[i].Activa = activa
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── In-memory PrecioBaseRepository ───────────────────────────────────────────

type stubPrecioBaseRepo struct {
	rows []model.PrecioBase
	err  error
}

func (r *stubPrecioBaseRepo) ListarActivos(_ context.Context) ([]model.PrecioBase, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []model.PrecioBase
	for _, row := range r.rows {
		if row.Activo {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubPrecioBaseRepo) Reemplazar(_ context.Context, precios []model.PrecioBase) error {
	for i := range precios {
		for j := range r.rows {
			if r.rows[j].Envase == precios[i].Envase {
				r.rows[j].Activo = false
			}
		}
		precios[i].ID = uuid.New()
		precios[i].CreatedAt = time.Now()
		r.rows = append(r.rows, precios[i])
	}
	return nil
}

func (r *stubPrecioBaseRepo) Desactivar(_ context.Context, envase string) (int64, error) {
	var n int64
	for i := range r.rows {
		if r.rows[i].Envase == envase && r.rows[i].Activo {
			r.rows[i].Activo = false
			n++
		}
	}
	return n, nil
}

// ── Fixtures ─────────────────────────────────────────────────────────────────

var errDB = errors.New("connection refused")

func str(s string) *string { return &s }

func id(n int64) *int64 { return &n }

func fecha(s string) *time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func entrega(cargaID uuid.UUID, envase string, trabajador int64, nro int) model.Entrega {
	return model.Entrega{
		ID:           uuid.New(),
		CargaID:      cargaID,
		Dimensiones:  model.Dimensiones{Envase: str(envase)},
		IDTrabajador: id(trabajador),
		NroEnvases:   nro,
		Fecha:        fecha("2024-03-04"),
	}
}

func basePrecio(envase string, precio int64) model.PrecioBase {
	return model.PrecioBase{ID: uuid.New(), Envase: envase, Precio: decimal.NewFromInt(precio), Activo: true, CreatedAt: time.Now()}
}

func reglaEnvase(envase string, modo model.ModoPrecio, monto int64, prioridad int) model.ReglaPrecio {
	return model.ReglaPrecio{
		ID:          uuid.New(),
		Dimensiones: model.Dimensiones{Envase: str(envase)},
		Modo:        modo,
		Monto:       decimal.NewFromInt(monto),
		Prioridad:   prioridad,
		Activa:      true,
		CreatedAt:   time.Now(),
	}
}
