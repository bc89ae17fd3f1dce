package service

import (
	"context"
	"errors"
	"time"

	"movibanca/internal/dto"
	"movibanca/internal/model"
	"movibanca/internal/repository"
	"movibanca/internal/validate"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Ventana durante la que una transferencia admite revocación.
const VentanaRevocacion = 24 * time.Hour

// Reintentos del compare-and-swap de saldo antes de rendirse.
const maxIntentosSaldo = 3

// MovimientoService es el motor de movimientos: valida, resuelve
// identidades, comprueba titularidad y fondos, asienta y notifica. Todas
// las comprobaciones son fail-fast; las dos únicas asimetrías deliberadas
// son la pata de destino de una transferencia y de su revocación, que se
// omiten sin abortar cuando la cuenta de destino no existe.
type MovimientoService interface {
	FindAll(ctx context.Context) ([]model.Movimiento, error)
	FindByGuid(ctx context.Context, guid string) (*model.Movimiento, error)
	FindByCliente(ctx context.Context, clienteGuid string) ([]model.Movimiento, error)
	FindByClienteYTipo(ctx context.Context, clienteGuid string, tipo model.TipoMovimiento) ([]model.Movimiento, error)
	DomiciliacionesDelCliente(ctx context.Context, usuarioID uuid.UUID) ([]model.Domiciliacion, error)

	RegistrarDomiciliacion(ctx context.Context, usuarioID uuid.UUID, req dto.DomiciliacionRequest) (*model.Domiciliacion, error)
	RegistrarIngresoNomina(ctx context.Context, usuarioID uuid.UUID, req dto.IngresoNominaRequest) (*model.Movimiento, error)
	RegistrarPagoTarjeta(ctx context.Context, usuarioID uuid.UUID, req dto.PagoTarjetaRequest) (*model.Movimiento, error)
	RegistrarTransferencia(ctx context.Context, usuarioID uuid.UUID, req dto.TransferenciaRequest) (*model.Movimiento, error)
	RevocarTransferencia(ctx context.Context, usuarioID uuid.UUID, movimientoGuid string) (*model.Movimiento, error)

	// EjecutarDomiciliacion asienta un ciclo de cobro de una domiciliación
	// vencida. Lo invoca el planificador, no la capa HTTP.
	EjecutarDomiciliacion(ctx context.Context, d *model.Domiciliacion) (*model.Movimiento, error)
}

type movimientoService struct {
	movimientos     repository.MovimientoRepository
	domiciliaciones repository.DomiciliacionRepository
	cuentas         repository.CuentaRepository
	clientes        repository.ClienteRepository
	usuarios        repository.UsuarioRepository
	notificador     Notificador
}

func NewMovimientoService(
	movimientos repository.MovimientoRepository,
	domiciliaciones repository.DomiciliacionRepository,
	cuentas repository.CuentaRepository,
	clientes repository.ClienteRepository,
	usuarios repository.UsuarioRepository,
	notificador Notificador,
) MovimientoService {
	return &movimientoService{
		movimientos:     movimientos,
		domiciliaciones: domiciliaciones,
		cuentas:         cuentas,
		clientes:        clientes,
		usuarios:        usuarios,
		notificador:     notificador,
	}
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *movimientoService) FindAll(ctx context.Context) ([]model.Movimiento, error) {
	return s.movimientos.FindAll(ctx)
}

func (s *movimientoService) FindByGuid(ctx context.Context, guid string) (*model.Movimiento, error) {
	m, err := s.movimientos.FindByGuid(ctx, guid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &MovimientoNotFoundError{Guid: guid}
	}
	return m, err
}

func (s *movimientoService) FindByCliente(ctx context.Context, clienteGuid string) ([]model.Movimiento, error) {
	return s.movimientos.FindByClienteGuid(ctx, clienteGuid)
}

func (s *movimientoService) FindByClienteYTipo(ctx context.Context, clienteGuid string, tipo model.TipoMovimiento) ([]model.Movimiento, error) {
	return s.movimientos.FindByClienteGuidYTipo(ctx, clienteGuid, tipo)
}

func (s *movimientoService) DomiciliacionesDelCliente(ctx context.Context, usuarioID uuid.UUID) ([]model.Domiciliacion, error) {
	cliente, err := s.resolverCliente(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	return s.domiciliaciones.FindByClienteGuid(ctx, cliente.ID.String())
}

// ── Registro de domiciliación ─────────────────────────────────────────────────

func (s *movimientoService) RegistrarDomiciliacion(ctx context.Context, usuarioID uuid.UUID, req dto.DomiciliacionRequest) (*model.Domiciliacion, error) {
	if !req.Cantidad.IsPositive() {
		return nil, &CantidadInvalidaError{Cantidad: req.Cantidad}
	}
	if !validate.Iban(req.IbanDestino) {
		return nil, &IbanInvalidoError{Iban: req.IbanDestino, Campo: "destino"}
	}
	if !validate.Iban(req.IbanOrigen) {
		return nil, &IbanInvalidoError{Iban: req.IbanOrigen, Campo: "origen"}
	}

	cliente, err := s.resolverCliente(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	cuenta, err := s.buscarCuenta(ctx, req.IbanOrigen)
	if err != nil {
		return nil, err
	}
	if cuenta.ClienteID != cliente.ID {
		return nil, &CuentaAjenaError{Iban: req.IbanOrigen}
	}

	existentes, err := s.domiciliaciones.FindActivasByClienteGuid(ctx, cliente.ID.String())
	if err != nil {
		return nil, err
	}
	for _, d := range existentes {
		if d.IbanDestino == req.IbanDestino {
			return nil, &DomiciliacionDuplicadaError{IbanDestino: req.IbanDestino}
		}
	}

	now := time.Now()
	domiciliacion := &model.Domiciliacion{
		Guid:            uuid.NewString(),
		ClienteGuid:     cliente.ID.String(),
		IbanOrigen:      req.IbanOrigen,
		IbanDestino:     req.IbanDestino,
		Cantidad:        req.Cantidad,
		NombreAcreedor:  req.NombreAcreedor,
		FechaInicio:     now,
		Periodicidad:    model.Periodicidad(req.Periodicidad),
		Activa:          true,
		UltimaEjecucion: now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.domiciliaciones.Create(ctx, domiciliacion); err != nil {
		return nil, err
	}

	s.notificar(ctx, usuarioID.String(), domiciliacion)
	return domiciliacion, nil
}

// ── Ingreso de nómina ─────────────────────────────────────────────────────────

func (s *movimientoService) RegistrarIngresoNomina(ctx context.Context, usuarioID uuid.UUID, req dto.IngresoNominaRequest) (*model.Movimiento, error) {
	if !req.Cantidad.IsPositive() {
		return nil, &CantidadInvalidaError{Cantidad: req.Cantidad}
	}
	if !validate.Iban(req.IbanDestino) {
		return nil, &IbanInvalidoError{Iban: req.IbanDestino, Campo: "destino"}
	}
	if !validate.Iban(req.IbanOrigen) {
		return nil, &IbanInvalidoError{Iban: req.IbanOrigen, Campo: "origen"}
	}
	if !validate.Cif(req.CifEmpresa) {
		return nil, &CifInvalidoError{Cif: req.CifEmpresa}
	}

	cliente, err := s.resolverCliente(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	cuenta, err := s.buscarCuenta(ctx, req.IbanDestino)
	if err != nil {
		return nil, err
	}
	if cuenta.ClienteID != cliente.ID {
		return nil, &CuentaAjenaError{Iban: req.IbanDestino}
	}

	if _, err := s.ajustarSaldo(ctx, req.IbanDestino, req.Cantidad, req.IbanDestino); err != nil {
		return nil, err
	}

	movimiento := model.NewMovimientoIngresoNomina(cliente.ID.String(), uuid.NewString(), time.Now(), model.IngresoNomina{
		IbanOrigen:    req.IbanOrigen,
		IbanDestino:   req.IbanDestino,
		Cantidad:      req.Cantidad,
		NombreEmpresa: req.NombreEmpresa,
		CifEmpresa:    req.CifEmpresa,
	})
	if err := s.movimientos.Create(ctx, &movimiento); err != nil {
		return nil, err
	}

	s.notificar(ctx, usuarioID.String(), &movimiento)
	return &movimiento, nil
}

// ── Pago con tarjeta ──────────────────────────────────────────────────────────

func (s *movimientoService) RegistrarPagoTarjeta(ctx context.Context, usuarioID uuid.UUID, req dto.PagoTarjetaRequest) (*model.Movimiento, error) {
	if !req.Cantidad.IsPositive() {
		return nil, &CantidadInvalidaError{Cantidad: req.Cantidad}
	}
	if !validate.Tarjeta(req.NumeroTarjeta) {
		return nil, &TarjetaInvalidaError{Numero: req.NumeroTarjeta}
	}

	cliente, err := s.resolverCliente(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	cuentas, err := s.cuentas.FindByClienteID(ctx, cliente.ID)
	if err != nil {
		return nil, err
	}
	if len(cuentas) == 0 {
		return nil, &CuentaNotFoundError{Clave: cliente.ID.String()}
	}

	// La tarjeta debe estar vinculada a una cuenta del propio cliente; una
	// tarjeta ajena se reporta igual que un número mal formado.
	var cuenta *model.Cuenta
	for i := range cuentas {
		if cuentas[i].Tarjeta != nil && cuentas[i].Tarjeta.Numero == req.NumeroTarjeta {
			cuenta = &cuentas[i]
			break
		}
	}
	if cuenta == nil {
		return nil, &TarjetaInvalidaError{Numero: req.NumeroTarjeta}
	}

	if cuenta.Saldo.Sub(req.Cantidad).IsNegative() {
		return nil, &SaldoInsuficienteError{Clave: req.NumeroTarjeta}
	}

	if _, err := s.ajustarSaldo(ctx, cuenta.Iban, req.Cantidad.Neg(), req.NumeroTarjeta); err != nil {
		return nil, err
	}

	movimiento := model.NewMovimientoPagoTarjeta(cliente.ID.String(), uuid.NewString(), time.Now(), model.PagoTarjeta{
		NumeroTarjeta:  req.NumeroTarjeta,
		Cantidad:       req.Cantidad,
		NombreComercio: req.NombreComercio,
	})
	if err := s.movimientos.Create(ctx, &movimiento); err != nil {
		return nil, err
	}

	s.notificar(ctx, usuarioID.String(), &movimiento)
	return &movimiento, nil
}

// ── Transferencia ─────────────────────────────────────────────────────────────

// RegistrarTransferencia asienta las dos patas de una transferencia. La pata
// de destino se escribe por completo antes que la de origen; ese orden
// sostiene la política de continuar cuando la cuenta de destino no existe.
// Convenio de signos: el movimiento de destino lleva cantidad positiva, el
// de origen negativa, y solo el de origen enlaza hacia el de destino.
func (s *movimientoService) RegistrarTransferencia(ctx context.Context, usuarioID uuid.UUID, req dto.TransferenciaRequest) (*model.Movimiento, error) {
	if req.IbanOrigen == req.IbanDestino {
		return nil, &MismoIbanError{Iban: req.IbanOrigen}
	}
	if !req.Cantidad.IsPositive() {
		return nil, &CantidadInvalidaError{Cantidad: req.Cantidad}
	}
	// Origen antes que destino: el orden de los errores es parte del contrato.
	if !validate.Iban(req.IbanOrigen) {
		return nil, &IbanInvalidoError{Iban: req.IbanOrigen, Campo: "origen"}
	}
	if !validate.Iban(req.IbanDestino) {
		return nil, &IbanInvalidoError{Iban: req.IbanDestino, Campo: "destino"}
	}

	cliente, err := s.resolverCliente(ctx, usuarioID)
	if err != nil {
		return nil, err
	}

	cuentaOrigen, err := s.buscarCuenta(ctx, req.IbanOrigen)
	if err != nil {
		return nil, err
	}
	if cuentaOrigen.ClienteID != cliente.ID {
		return nil, &CuentaAjenaError{Iban: req.IbanOrigen}
	}
	if cuentaOrigen.Saldo.LessThan(req.Cantidad) {
		return nil, &SaldoInsuficienteError{Clave: req.IbanOrigen}
	}

	// Pata de destino. Si la cuenta de destino no se resuelve, la
	// transferencia continúa solo con la pata de origen: se adeuda el
	// importe y queda un único movimiento, sin abono ni notificación.
	movimientoDestinoGuid := ""
	cuentaDestino, err := s.cuentas.FindByIban(ctx, req.IbanDestino)
	if err != nil {
		log.Warn().Str("iban_destino", req.IbanDestino).Err(err).
			Msg("transferencia: cuenta de destino no resuelta, se omite la pata de abono")
	} else {
		if _, err := s.ajustarSaldo(ctx, req.IbanDestino, req.Cantidad, req.IbanDestino); err != nil {
			return nil, err
		}

		movimientoDestino := model.NewMovimientoTransferencia(cuentaDestino.ClienteID.String(), uuid.NewString(), time.Now(), model.Transferencia{
			IbanOrigen:         req.IbanOrigen,
			IbanDestino:        req.IbanDestino,
			Cantidad:           req.Cantidad,
			NombreBeneficiario: req.NombreBeneficiario,
		})
		if err := s.movimientos.Create(ctx, &movimientoDestino); err != nil {
			return nil, err
		}
		movimientoDestinoGuid = movimientoDestino.Guid

		// A diferencia de la cuenta, un cliente o usuario de destino
		// irresoluble sí aborta la operación completa.
		clienteDestino, err := s.clientes.FindByID(ctx, cuentaDestino.ClienteID)
		if err != nil {
			return nil, s.traducirNoEncontrado(err, &ClienteNotFoundError{UsuarioGuid: cuentaDestino.ClienteID.String()})
		}
		usuarioDestino, err := s.usuarios.FindByID(ctx, clienteDestino.UsuarioID)
		if err != nil {
			return nil, s.traducirNoEncontrado(err, &UsuarioNotFoundError{Guid: clienteDestino.UsuarioID.String()})
		}

		s.notificar(ctx, usuarioDestino.ID.String(), &movimientoDestino)
	}

	// Pata de origen, siempre después de que la de destino haya terminado.
	if _, err := s.ajustarSaldo(ctx, req.IbanOrigen, req.Cantidad.Neg(), req.IbanOrigen); err != nil {
		return nil, err
	}

	movimientoOrigen := model.NewMovimientoTransferencia(cliente.ID.String(), uuid.NewString(), time.Now(), model.Transferencia{
		IbanOrigen:         req.IbanOrigen,
		IbanDestino:        req.IbanDestino,
		Cantidad:           req.Cantidad.Neg(),
		NombreBeneficiario: req.NombreBeneficiario,
		MovimientoDestino:  movimientoDestinoGuid,
	})
	if err := s.movimientos.Create(ctx, &movimientoOrigen); err != nil {
		return nil, err
	}

	return &movimientoOrigen, nil
}

// ── Revocación de transferencia ───────────────────────────────────────────────

func (s *movimientoService) RevocarTransferencia(ctx context.Context, usuarioID uuid.UUID, movimientoGuid string) (*model.Movimiento, error) {
	movimiento, err := s.movimientos.FindByGuid(ctx, movimientoGuid)
	if err != nil {
		return nil, s.traducirNoEncontrado(err, &MovimientoNotFoundError{Guid: movimientoGuid})
	}
	if !movimiento.EsTransferencia() {
		return nil, &NoEsTransferenciaError{Guid: movimientoGuid}
	}
	if !movimiento.CreatedAt.Add(VentanaRevocacion).After(time.Now()) {
		return nil, &NoRevocableError{Guid: movimientoGuid}
	}

	cliente, err := s.resolverCliente(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if movimiento.ClienteGuid != cliente.ID.String() {
		return nil, &MovimientoAjenoError{Guid: movimientoGuid}
	}

	transferencia := movimiento.Transferencia
	importe := transferencia.Cantidad.Abs()

	// Deshacer la pata de origen: devolver el adeudo y marcar el movimiento.
	if _, err := s.ajustarSaldo(ctx, transferencia.IbanOrigen, importe, transferencia.IbanOrigen); err != nil {
		return nil, err
	}
	movimiento.IsDeleted = true
	if _, err := s.movimientos.Update(ctx, movimiento); err != nil {
		return nil, err
	}

	s.notificar(ctx, usuarioID.String(), movimiento)

	// Deshacer la pata de destino. Sin enlace al abono no hay nada que
	// deshacer: la transferencia se asentó solo en origen porque la cuenta
	// de destino no se resolvía, y adeudar ahora restaría dinero que nunca
	// se abonó.
	if transferencia.MovimientoDestino == "" {
		log.Warn().Str("guid", movimientoGuid).Str("iban_destino", transferencia.IbanDestino).
			Msg("revocacion: la transferencia no tiene pata de abono, se deshace solo el adeudo")
		return movimiento, nil
	}

	// Igual que en el registro: si la cuenta de destino no se resuelve, la
	// revocación queda completada solo en origen.
	cuentaDestino, err := s.cuentas.FindByIban(ctx, transferencia.IbanDestino)
	if err != nil {
		log.Warn().Str("iban_destino", transferencia.IbanDestino).Err(err).
			Msg("revocacion: cuenta de destino no resuelta, se omite la pata de abono")
		return movimiento, nil
	}

	if _, err := s.ajustarSaldo(ctx, transferencia.IbanDestino, importe.Neg(), transferencia.IbanDestino); err != nil {
		return nil, err
	}

	movimientoDestino, err := s.movimientos.FindByGuid(ctx, transferencia.MovimientoDestino)
	if err != nil {
		return nil, s.traducirNoEncontrado(err, &MovimientoNotFoundError{Guid: transferencia.MovimientoDestino})
	}
	movimientoDestino.IsDeleted = true
	if _, err := s.movimientos.Update(ctx, movimientoDestino); err != nil {
		return nil, err
	}

	clienteDestino, err := s.clientes.FindByID(ctx, cuentaDestino.ClienteID)
	if err != nil {
		return nil, s.traducirNoEncontrado(err, &ClienteNotFoundError{UsuarioGuid: cuentaDestino.ClienteID.String()})
	}
	usuarioDestino, err := s.usuarios.FindByID(ctx, clienteDestino.UsuarioID)
	if err != nil {
		return nil, s.traducirNoEncontrado(err, &UsuarioNotFoundError{Guid: clienteDestino.UsuarioID.String()})
	}
	s.notificar(ctx, usuarioDestino.ID.String(), movimientoDestino)

	return movimiento, nil
}

// ── Ejecución de domiciliación (planificador) ─────────────────────────────────

func (s *movimientoService) EjecutarDomiciliacion(ctx context.Context, d *model.Domiciliacion) (*model.Movimiento, error) {
	cuenta, err := s.buscarCuenta(ctx, d.IbanOrigen)
	if err != nil {
		return nil, err
	}
	if cuenta.Saldo.LessThan(d.Cantidad) {
		return nil, &SaldoInsuficienteError{Clave: d.IbanOrigen}
	}

	if _, err := s.ajustarSaldo(ctx, d.IbanOrigen, d.Cantidad.Neg(), d.IbanOrigen); err != nil {
		return nil, err
	}

	movimiento := model.NewMovimientoDomiciliacion(cuenta.ClienteID.String(), uuid.NewString(), time.Now(), model.DatosDomiciliacion{
		DomiciliacionGuid: d.Guid,
		IbanOrigen:        d.IbanOrigen,
		IbanDestino:       d.IbanDestino,
		Cantidad:          d.Cantidad,
		NombreAcreedor:    d.NombreAcreedor,
	})
	if err := s.movimientos.Create(ctx, &movimiento); err != nil {
		return nil, err
	}

	// El aviso al titular es best-effort: el cargo ya está asentado.
	if clienteOrigen, err := s.clientes.FindByID(ctx, cuenta.ClienteID); err == nil {
		s.notificar(ctx, clienteOrigen.UsuarioID.String(), &movimiento)
	} else {
		log.Warn().Str("cliente_guid", cuenta.ClienteID.String()).Err(err).
			Msg("domiciliacion: titular no resuelto para el aviso")
	}

	return &movimiento, nil
}

// ── Colaboradores internos ────────────────────────────────────────────────────

func (s *movimientoService) resolverCliente(ctx context.Context, usuarioID uuid.UUID) (*model.Cliente, error) {
	cliente, err := s.clientes.FindByUsuarioID(ctx, usuarioID)
	if err != nil {
		return nil, s.traducirNoEncontrado(err, &ClienteNotFoundError{UsuarioGuid: usuarioID.String()})
	}
	return cliente, nil
}

func (s *movimientoService) buscarCuenta(ctx context.Context, iban string) (*model.Cuenta, error) {
	cuenta, err := s.cuentas.FindByIban(ctx, iban)
	if err != nil {
		return nil, s.traducirNoEncontrado(err, &CuentaNotFoundError{Clave: iban})
	}
	return cuenta, nil
}

// traducirNoEncontrado convierte la ausencia reportada por los almacenes en
// el error tipado del dominio; cualquier otro fallo se propaga tal cual.
func (s *movimientoService) traducirNoEncontrado(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
		return notFound
	}
	return err
}

// ajustarSaldo relee la cuenta justo antes de mutarla y escribe el saldo de
// reemplazo con compare-and-swap, reintentando si otra escritura ganó la
// carrera. Un resultado negativo se rechaza como saldo insuficiente con la
// clave indicada (iban o número de tarjeta).
func (s *movimientoService) ajustarSaldo(ctx context.Context, iban string, delta decimal.Decimal, claveFondos string) (*model.Cuenta, error) {
	for intento := 0; intento < maxIntentosSaldo; intento++ {
		cuenta, err := s.buscarCuenta(ctx, iban)
		if err != nil {
			return nil, err
		}

		nuevoSaldo := cuenta.Saldo.Add(delta)
		if delta.IsNegative() && nuevoSaldo.IsNegative() {
			return nil, &SaldoInsuficienteError{Clave: claveFondos}
		}

		err = s.cuentas.ApplyDelta(ctx, cuenta.ID, nuevoSaldo, cuenta.Version)
		if errors.Is(err, repository.ErrConflictoVersion) {
			continue
		}
		if err != nil {
			return nil, err
		}

		cuenta.Saldo = nuevoSaldo
		cuenta.Version++
		return cuenta, nil
	}
	return nil, repository.ErrConflictoVersion
}

func (s *movimientoService) notificar(ctx context.Context, usuarioGuid string, data interface{}) {
	if s.notificador == nil {
		return
	}
	n := Notificacion{Tipo: NotificacionCreate, CreatedAt: time.Now(), Data: data}
	if err := s.notificador.Notificar(ctx, usuarioGuid, n); err != nil {
		log.Error().Str("usuario_guid", usuarioGuid).Err(err).Msg("fallo al encolar la notificacion")
	}
}
