package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"movibanca/internal/repository"
	"movibanca/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ejecutarRespondError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	respondError(c, err)
	return w
}

func TestRespondError_Mapeo(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"cuenta no encontrada", &service.CuentaNotFoundError{Clave: "ES00"}, http.StatusNotFound},
		{"movimiento no encontrado", &service.MovimientoNotFoundError{Guid: "x"}, http.StatusNotFound},
		{"cliente no encontrado", &service.ClienteNotFoundError{UsuarioGuid: "x"}, http.StatusNotFound},
		{"domiciliacion duplicada", &service.DomiciliacionDuplicadaError{IbanDestino: "ES00"}, http.StatusConflict},
		{"conflicto de version", repository.ErrConflictoVersion, http.StatusConflict},
		{"saldo insuficiente", &service.SaldoInsuficienteError{Clave: "ES00"}, http.StatusBadRequest},
		{"iban invalido", &service.IbanInvalidoError{Iban: "XX", Campo: "origen"}, http.StatusBadRequest},
		{"cantidad invalida", &service.CantidadInvalidaError{Cantidad: decimal.Zero}, http.StatusBadRequest},
		{"cuenta ajena", &service.CuentaAjenaError{Iban: "ES00"}, http.StatusBadRequest},
		{"movimiento ajeno", &service.MovimientoAjenoError{Guid: "x"}, http.StatusBadRequest},
		{"no revocable", &service.NoRevocableError{Guid: "x"}, http.StatusBadRequest},
		{"no es transferencia", &service.NoEsTransferenciaError{Guid: "x"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := ejecutarRespondError(tc.err)
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), "detail")
		})
	}
}

func TestRespondError_DesconocidoVaAlErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("fallo de almacen"))

	// No escribe respuesta: delega en el middleware ErrorHandler vía c.Error.
	assert.Len(t, c.Errors, 1)
	assert.Empty(t, w.Body.String())
}
