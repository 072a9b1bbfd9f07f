package handler

import (
	"context"
	"net/http"

	"liquidacion/internal/middleware"
	"liquidacion/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecalculoQueue enqueues a recalculation for the worker pool. notificar is an
// optional email address that receives the liquidación PDF when the run ends.
type RecalculoQueue interface {
	EnqueueRecalculo(ctx context.Context, cargaID uuid.UUID, notificar string) error
}

type RecalculoHandler struct {
	runner *service.RecalculoRunner
	cola   RecalculoQueue
}

func NewRecalculoHandler(runner *service.RecalculoRunner, cola RecalculoQueue) *RecalculoHandler {
	return &RecalculoHandler{runner: runner, cola: cola}
}

// Recalcular godoc
// @Summary      Recalcular precios de una carga
// @Description  Evalúa todas las entregas contra las reglas y precios base vigentes. Con async=true el trabajo se encola y responde 202.
// @Tags         recalculo
// @Produce      json
// @Security     BearerAuth
// @Param        id     path     string true  "UUID de la carga"
// @Param        async  query    bool   false "Encolar en lugar de ejecutar"
// @Param        notificar query string false "Email que recibe el PDF de liquidación (solo async)"
// @Success      200  {object} dto.RecalculoResult
// @Success      202  {object} map[string]string
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/cargas/{id}/recalcular [post]
func (h *RecalculoHandler) Recalcular(c *gin.Context) {
	id, ok := paramUUID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if c.Query("async") == "true" && h.cola != nil {
		if err := h.runner.Existe(ctx, id); err != nil {
			responderError(c, err)
			return
		}
		if err := h.cola.EnqueueRecalculo(ctx, id, c.Query("notificar")); err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"carga_id": id.String(), "estado": "encolado"})
		return
	}

	res, err := h.runner.Ejecutar(ctx, id)
	if err != nil {
		responderError(c, err)
		return
	}
	if claims := middleware.GetClaims(c); claims != nil {
		c.Header("X-Recalculado-Por", claims.Username)
	}
	c.JSON(http.StatusOK, res)
}

// Ultimo godoc
// @Summary      Último resultado de recálculo
// @Tags         recalculo
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la carga"
// @Success      200  {object} dto.RecalculoResult
// @Failure      404  {object} apierror.APIError
// @Router       /v1/cargas/{id}/recalculo [get]
func (h *RecalculoHandler) Ultimo(c *gin.Context) {
	id, ok := paramUUID(c)
	if !ok {
		return
	}
	res, err := h.runner.Ultimo(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
