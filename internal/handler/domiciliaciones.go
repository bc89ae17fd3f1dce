package handler

import (
	"net/http"

	"movibanca/internal/dto"
	"movibanca/internal/service"

	"github.com/gin-gonic/gin"
)

type DomiciliacionesHandler struct{ svc service.MovimientoService }

func NewDomiciliacionesHandler(svc service.MovimientoService) *DomiciliacionesHandler {
	return &DomiciliacionesHandler{svc: svc}
}

// Registrar godoc
// @Summary      Dar de alta una domiciliación
// @Description  Autoriza un cobro periódico contra una cuenta propia. El alta no mueve saldo; el planificador ejecuta los cobros vencidos.
// @Tags         domiciliaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.DomiciliacionRequest true "Detalle de la domiciliación"
// @Success      201  {object} model.Domiciliacion
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/domiciliaciones [post]
func (h *DomiciliacionesHandler) Registrar(c *gin.Context) {
	var req dto.DomiciliacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	usuarioID, ok := usuarioAutenticado(c)
	if !ok {
		return
	}
	d, err := h.svc.RegistrarDomiciliacion(c.Request.Context(), usuarioID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// ListarPropias godoc
// @Summary      Listar domiciliaciones del cliente autenticado
// @Tags         domiciliaciones
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} model.Domiciliacion
// @Failure      404  {object} apierror.APIError
// @Router       /v1/domiciliaciones [get]
func (h *DomiciliacionesHandler) ListarPropias(c *gin.Context) {
	usuarioID, ok := usuarioAutenticado(c)
	if !ok {
		return
	}
	domiciliaciones, err := h.svc.DomiciliacionesDelCliente(c.Request.Context(), usuarioID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, domiciliaciones)
}
