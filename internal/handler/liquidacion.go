package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"liquidacion/internal/apierror"
	"liquidacion/internal/dto"
	"liquidacion/internal/service"

	"github.com/gin-gonic/gin"
)

type LiquidacionHandler struct{ svc service.LiquidacionService }

func NewLiquidacionHandler(svc service.LiquidacionService) *LiquidacionHandler {
	return &LiquidacionHandler{svc: svc}
}

// DescargarPDF godoc
// @Summary      PDF de liquidación de una carga
// @Description  Totales por trabajador y por fecha tomados del último recálculo.
// @Tags         cargas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la carga"
// @Success      200  {file}   file
// @Failure      404  {object} apierror.APIError
// @Router       /v1/cargas/{id}/liquidacion.pdf [get]
func (h *LiquidacionHandler) DescargarPDF(c *gin.Context) {
	id, ok := paramUUID(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.EscribirPDF(c.Request.Context(), id, &buf); err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="liquidacion_%s.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// Resumen godoc
// @Summary      Resumen por trabajador y día
// @Description  Envases y montos de todas las cargas agrupados por día y trabajador, con los montos del último recálculo de cada carga. Solo entregas con envase y trabajador.
// @Tags         liquidacion
// @Produce      json
// @Security     BearerAuth
// @Param        desde      query    string true  "Fecha inicial YYYY-MM-DD (inclusive)"
// @Param        hasta      query    string true  "Fecha final YYYY-MM-DD (inclusive)"
// @Param        trabajador query    int    false "ID del trabajador"
// @Success      200  {object} dto.ResumenTrabajadoresResponse
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/liquidacion/resumen [get]
func (h *LiquidacionHandler) Resumen(c *gin.Context) {
	var q dto.ResumenTrabajadoresQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if !validar(c, &q) {
		return
	}
	desde, err := time.Parse(time.DateOnly, q.Desde)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Formato de desde inválido. Use YYYY-MM-DD"))
		return
	}
	hasta, err := time.Parse(time.DateOnly, q.Hasta)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Formato de hasta inválido. Use YYYY-MM-DD"))
		return
	}

	resp, err := h.svc.ResumenTrabajadores(c.Request.Context(), desde, hasta, q.Trabajador)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
