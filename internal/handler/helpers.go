package handler

import (
	"errors"
	"net/http"
	"reflect"

	"movibanca/internal/apierror"
	"movibanca/internal/repository"
	"movibanca/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// gt=0, lte=10000 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError traduce los errores tipados del motor a códigos HTTP. Todo lo
// no reconocido se registra vía c.Error y sale como 500 por el ErrorHandler.
func respondError(c *gin.Context, err error) {
	var (
		clienteNF    *service.ClienteNotFoundError
		usuarioNF    *service.UsuarioNotFoundError
		cuentaNF     *service.CuentaNotFoundError
		movimientoNF *service.MovimientoNotFoundError
		duplicada    *service.DomiciliacionDuplicadaError
	)
	switch {
	case errors.As(err, &clienteNF),
		errors.As(err, &usuarioNF),
		errors.As(err, &cuentaNF),
		errors.As(err, &movimientoNF):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))

	case errors.As(err, &duplicada):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))

	case errors.Is(err, repository.ErrConflictoVersion):
		c.JSON(http.StatusConflict, apierror.New("la cuenta esta siendo modificada, intente de nuevo"))

	case esErrorDeRegla(err):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))

	default:
		_ = c.Error(err)
	}
}

func esErrorDeRegla(err error) bool {
	var (
		cantidad   *service.CantidadInvalidaError
		iban       *service.IbanInvalidoError
		cif        *service.CifInvalidoError
		tarjeta    *service.TarjetaInvalidaError
		mismo      *service.MismoIbanError
		saldo      *service.SaldoInsuficienteError
		noRevoca   *service.NoRevocableError
		noTransfer *service.NoEsTransferenciaError
		cuentaAj   *service.CuentaAjenaError
		movAj      *service.MovimientoAjenoError
	)
	return errors.As(err, &cantidad) ||
		errors.As(err, &iban) ||
		errors.As(err, &cif) ||
		errors.As(err, &tarjeta) ||
		errors.As(err, &mismo) ||
		errors.As(err, &saldo) ||
		errors.As(err, &noRevoca) ||
		errors.As(err, &noTransfer) ||
		errors.As(err, &cuentaAj) ||
		errors.As(err, &movAj)
}
