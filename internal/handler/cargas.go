package handler

import (
	"net/http"

	"liquidacion/internal/dto"
	"liquidacion/internal/service"

	"github.com/gin-gonic/gin"
)

type CargasHandler struct{ svc service.CargaService }

func NewCargasHandler(svc service.CargaService) *CargasHandler { return &CargasHandler{svc: svc} }

// Crear godoc
// @Summary      Registrar una carga de entregas
// @Description  Recibe entregas ya normalizadas. Los problemas de calidad de datos se devuelven como advertencias, no como errores.
// @Tags         cargas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.CrearCargaRequest true "Entregas de la carga"
// @Success      201  {object} dto.CargaResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/cargas [post]
func (h *CargasHandler) Crear(c *gin.Context) {
	var req dto.CrearCargaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar cargas
// @Tags         cargas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.CargaResponse
// @Router       /v1/cargas [get]
func (h *CargasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Envases godoc
// @Summary      Envases entregados por tipo
// @Tags         cargas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la carga"
// @Success      200  {object} dto.EnvasesResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/cargas/{id}/envases [get]
func (h *CargasHandler) Envases(c *gin.Context) {
	id, ok := paramUUID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Envases(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
