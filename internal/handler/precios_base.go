package handler

import (
	"net/http"

	"liquidacion/internal/dto"
	"liquidacion/internal/service"

	"github.com/gin-gonic/gin"
)

type PreciosBaseHandler struct{ svc service.PrecioBaseService }

func NewPreciosBaseHandler(svc service.PrecioBaseService) *PreciosBaseHandler {
	return &PreciosBaseHandler{svc: svc}
}

// Listar godoc
// @Summary      Precios base vigentes
// @Tags         precios-base
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.PrecioBaseListResponse
// @Router       /v1/precios-base [get]
func (h *PreciosBaseHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Guardar godoc
// @Summary      Fijar precios base
// @Description  Cada item cierra el precio vigente de su envase y abre uno nuevo; el anterior queda como historial.
// @Tags         precios-base
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.GuardarPreciosBaseRequest true "Precios por envase"
// @Success      200  {object} dto.PrecioBaseListResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/precios-base [post]
func (h *PreciosBaseHandler) Guardar(c *gin.Context) {
	var req dto.GuardarPreciosBaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Guardar(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary      Desactivar el precio base de un envase
// @Tags         precios-base
// @Accept       json
// @Security     BearerAuth
// @Param        body body     dto.DesactivarPrecioBaseRequest true "Envase"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /v1/precios-base [delete]
func (h *PreciosBaseHandler) Desactivar(c *gin.Context) {
	var req dto.DesactivarPrecioBaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), req.Envase); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
