package handler

import (
	"net/http"

	"liquidacion/internal/dto"
	"liquidacion/internal/service"

	"github.com/gin-gonic/gin"
)

type ReglasHandler struct{ svc service.ReglaService }

func NewReglasHandler(svc service.ReglaService) *ReglasHandler { return &ReglasHandler{svc: svc} }

// Listar godoc
// @Summary      Listar reglas de precio
// @Description  Ordenadas por prioridad descendente y luego por fecha de creación descendente.
// @Tags         reglas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.ReglaPrecioResponse
// @Router       /v1/reglas [get]
func (h *ReglasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Guardar godoc
// @Summary      Crear, actualizar y eliminar reglas
// @Description  Aplica las eliminaciones y luego los upserts en una transacción. Devuelve los conflictos de prioridad resultantes.
// @Tags         reglas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body     dto.GuardarReglasRequest true "Reglas a guardar y a eliminar"
// @Success      200  {object} dto.GuardarReglasResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/reglas [post]
func (h *ReglasHandler) Guardar(c *gin.Context) {
	var req dto.GuardarReglasRequest
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

// CambiarEstado godoc
// @Summary      Activar o desactivar una regla
// @Tags         reglas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                        true "UUID de la regla"
// @Param        body body     dto.CambiarEstadoReglaRequest true "Nuevo estado"
// @Success      200  {object} dto.ReglaPrecioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/reglas/{id}/estado [patch]
func (h *ReglasHandler) CambiarEstado(c *gin.Context) {
	id, ok := paramUUID(c)
	if !ok {
		return
	}
	var req dto.CambiarEstadoReglaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, *req.Activa)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Conflictos godoc
// @Summary      Conflictos de prioridad entre reglas activas
// @Tags         reglas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.ConflictosResponse
// @Router       /v1/reglas/conflictos [get]
func (h *ReglasHandler) Conflictos(c *gin.Context) {
	resp, err := h.svc.Conflictos(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
