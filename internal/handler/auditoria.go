package handler

import (
	"net/http"
	"time"

	"liquidacion/internal/apierror"
	"liquidacion/internal/dto"
	"liquidacion/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuditoriaHandler struct{ svc service.AuditoriaService }

func NewAuditoriaHandler(svc service.AuditoriaService) *AuditoriaHandler {
	return &AuditoriaHandler{svc: svc}
}

// Consultar godoc
// @Summary      Auditar el precio de entregas
// @Description  Recalcula con las reglas vigentes y devuelve la traza. Se usa el primer criterio presente: entrega_id, id_entrega, o id_trab junto con fecha.
// @Tags         auditoria
// @Produce      json
// @Security     BearerAuth
// @Param        entrega_id query string false "UUID interno de la entrega"
// @Param        id_entrega query string false "ID externo de la entrega"
// @Param        id_trab    query int    false "ID del trabajador"
// @Param        fecha      query string false "Fecha YYYY-MM-DD"
// @Success      200  {object} dto.AuditoriaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/auditoria [get]
func (h *AuditoriaHandler) Consultar(c *gin.Context) {
	var q dto.AuditoriaQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if !validar(c, &q) {
		return
	}
	ctx := c.Request.Context()

	switch {
	case q.EntregaID != "":
		resp, err := h.svc.PorEntrega(ctx, uuid.MustParse(q.EntregaID))
		if err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)

	case q.IDEntrega != "":
		resp, err := h.svc.PorIDEntrega(ctx, q.IDEntrega)
		if err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)

	case q.IDTrab != nil && q.Fecha != "":
		fecha, err := time.Parse(time.DateOnly, q.Fecha)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Formato de fecha inválido. Use YYYY-MM-DD"))
			return
		}
		resp, err := h.svc.PorTrabajadorFecha(ctx, *q.IDTrab, fecha)
		if err != nil {
			responderError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)

	default:
		c.JSON(http.StatusBadRequest, apierror.New("Debe indicar entrega_id, id_entrega, o id_trab junto con fecha"))
	}
}
