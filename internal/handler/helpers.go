package handler

import (
	"errors"
	"net/http"
	"reflect"

	"liquidacion/internal/apierror"
	"liquidacion/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string)
		for _, fe := range verrs {
			fields[fe.Namespace()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramUUID parses the :id route parameter, writing 400 on failure.
func paramUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

var erroresConocidos = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrCargaNoEncontrada, http.StatusNotFound, "carga_no_encontrada"},
	{service.ErrEntregaNoEncontrada, http.StatusNotFound, "entrega_no_encontrada"},
	{service.ErrReglaNoEncontrada, http.StatusNotFound, "regla_no_encontrada"},
	{service.ErrPrecioBaseNoEncontrado, http.StatusNotFound, "precio_base_no_encontrado"},
	{service.ErrResultadoNoDisponible, http.StatusNotFound, "resultado_no_disponible"},
	{service.ErrEntregaInvalida, http.StatusUnprocessableEntity, "entrega_invalida"},
	{service.ErrReglaInvalida, http.StatusUnprocessableEntity, "regla_invalida"},
	{service.ErrPrecioBaseInvalido, http.StatusUnprocessableEntity, "precio_base_invalido"},
	{service.ErrRangoFechasInvalido, http.StatusUnprocessableEntity, "rango_fechas_invalido"},
	{service.ErrRecalculoEnCurso, http.StatusConflict, "recalculo_en_curso"},
}

// responderError maps service sentinels to their HTTP status. Anything else is
// left to middleware.ErrorHandler, which logs it and answers a generic 500.
func responderError(c *gin.Context, err error) {
	for _, k := range erroresConocidos {
		if errors.Is(err, k.err) {
			c.JSON(k.status, apierror.WithCode(k.code, err.Error()))
			return
		}
	}
	_ = c.Error(err)
}
