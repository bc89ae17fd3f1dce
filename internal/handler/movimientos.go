package handler

import (
	"net/http"

	"movibanca/internal/apierror"
	"movibanca/internal/dto"
	"movibanca/internal/middleware"
	"movibanca/internal/model"
	"movibanca/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MovimientosHandler struct{ svc service.MovimientoService }

func NewMovimientosHandler(svc service.MovimientoService) *MovimientosHandler {
	return &MovimientosHandler{svc: svc}
}

func usuarioAutenticado(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// RegistrarIngresoNomina godoc
// @Summary      Registrar ingreso de nómina
// @Description  Abona la nómina en la cuenta de destino del cliente autenticado y asienta el movimiento.
// @Tags         movimientos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.IngresoNominaRequest true "Detalle de la nómina"
// @Success      201  {object} model.Movimiento
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/movimientos/ingreso-nomina [post]
func (h *MovimientosHandler) RegistrarIngresoNomina(c *gin.Context) {
	var req dto.IngresoNominaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioAutenticado(c)
	if !ok {
		return
	}
	m, err := h.svc.RegistrarIngresoNomina(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// RegistrarPagoTarjeta godoc
// @Summary      Registrar pago con tarjeta
// @Description  Adeuda un pago con tarjeta contra la cuenta vinculada a la tarjeta del cliente.
// @Tags         movimientos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PagoTarjetaRequest true "Detalle del pago"
// @Success      201  {object} model.Movimiento
// @Failure      400  {object} apierror.APIError
// @Router       /v1/movimientos/pago-tarjeta [post]
func (h *MovimientosHandler) RegistrarPagoTarjeta(c *gin.Context) {
	var req dto.PagoTarjetaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioAutenticado(c)
	if !ok {
		return
	}
	m, err := h.svc.RegistrarPagoTarjeta(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// RegistrarTransferencia godoc
// @Summary      Registrar transferencia
// @Description  Asienta las dos patas de una transferencia y notifica al destinatario. Devuelve el movimiento de la cuenta de origen.
// @Tags         movimientos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.TransferenciaRequest true "Detalle de la transferencia"
// @Success      201  {object} model.Movimiento
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/movimientos/transferencia [post]
func (h *MovimientosHandler) RegistrarTransferencia(c *gin.Context) {
	var req dto.TransferenciaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioAutenticado(c)
	if !ok {
		return
	}
	m, err := h.svc.RegistrarTransferencia(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// RevocarTransferencia godoc
// @Summary      Revocar transferencia
// @Description  Deshace una transferencia propia dentro de la ventana de 24 horas. Los apuntes quedan marcados, nunca se borran.
// @Tags         movimientos
// @Produce      json
// @Security     BearerAuth
// @Param        guid path string true "GUID del movimiento de origen"
// @Success      200  {object} model.Movimiento
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/movimientos/transferencia/{guid} [delete]
func (h *MovimientosHandler) RevocarTransferencia(c *gin.Context) {
	usuarioID, ok := usuarioAutenticado(c)
	if !ok {
		return
	}
	m, err := h.svc.RevocarTransferencia(c.Request.Context(), usuarioID, c.Param("guid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Listar godoc
// @Summary      Listar todos los movimientos
// @Description  Listado completo del libro mayor, solo para back-office.
// @Tags         movimientos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} model.Movimiento
// @Router       /v1/movimientos [get]
func (h *MovimientosHandler) Listar(c *gin.Context) {
	movimientos, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, movimientos)
}

// ObtenerPorGuid godoc
// @Summary      Obtener movimiento por GUID
// @Tags         movimientos
// @Produce      json
// @Security     BearerAuth
// @Param        guid path string true "GUID del movimiento"
// @Success      200  {object} model.Movimiento
// @Failure      404  {object} apierror.APIError
// @Router       /v1/movimientos/{guid} [get]
func (h *MovimientosHandler) ObtenerPorGuid(c *gin.Context) {
	m, err := h.svc.FindByGuid(c.Request.Context(), c.Param("guid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// ListarPorCliente godoc
// @Summary      Listar movimientos de un cliente
// @Description  Movimientos del cliente, opcionalmente filtrados por tipo (DOMICILIACION, INGRESO_NOMINA, PAGO_TARJETA, TRANSFERENCIA).
// @Tags         movimientos
// @Produce      json
// @Security     BearerAuth
// @Param        clienteGuid path  string true  "GUID del cliente"
// @Param        tipo        query string false "Tipo de movimiento"
// @Success      200  {array} model.Movimiento
// @Failure      400  {object} apierror.APIError
// @Router       /v1/movimientos/cliente/{clienteGuid} [get]
func (h *MovimientosHandler) ListarPorCliente(c *gin.Context) {
	clienteGuid := c.Param("clienteGuid")

	if tipo := c.Query("tipo"); tipo != "" {
		switch model.TipoMovimiento(tipo) {
		case model.TipoDomiciliacion, model.TipoIngresoNomina, model.TipoPagoTarjeta, model.TipoTransferencia:
		default:
			c.JSON(http.StatusBadRequest, apierror.New("Tipo de movimiento desconocido: "+tipo))
			return
		}
		movimientos, err := h.svc.FindByClienteYTipo(c.Request.Context(), clienteGuid, model.TipoMovimiento(tipo))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, movimientos)
		return
	}

	movimientos, err := h.svc.FindByCliente(c.Request.Context(), clienteGuid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, movimientos)
}
