package model

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TipoMovimiento discrimina la clase de movimiento. Un movimiento lleva
// exactamente un dato de detalle, el que corresponde a su tipo; los
// constructores New* son la única vía de creación y garantizan esa
// invariante. El tipo no cambia nunca tras la creación.
type TipoMovimiento string

const (
	TipoDomiciliacion TipoMovimiento = "DOMICILIACION"
	TipoIngresoNomina TipoMovimiento = "INGRESO_NOMINA"
	TipoPagoTarjeta   TipoMovimiento = "PAGO_TARJETA"
	TipoTransferencia TipoMovimiento = "TRANSFERENCIA"
)

// DatosDomiciliacion es el detalle de un cargo periódico ya ejecutado.
type DatosDomiciliacion struct {
	DomiciliacionGuid string          `bson:"domiciliacion_guid" json:"domiciliacionGuid"`
	IbanOrigen        string          `bson:"iban_origen" json:"ibanOrigen"`
	IbanDestino       string          `bson:"iban_destino" json:"ibanDestino"`
	Cantidad          decimal.Decimal `bson:"cantidad" json:"cantidad"`
	NombreAcreedor    string          `bson:"nombre_acreedor" json:"nombreAcreedor"`
}

// IngresoNomina es el detalle de un abono de nómina.
type IngresoNomina struct {
	IbanOrigen    string          `bson:"iban_origen" json:"ibanOrigen"`
	IbanDestino   string          `bson:"iban_destino" json:"ibanDestino"`
	Cantidad      decimal.Decimal `bson:"cantidad" json:"cantidad"`
	NombreEmpresa string          `bson:"nombre_empresa" json:"nombreEmpresa"`
	CifEmpresa    string          `bson:"cif_empresa" json:"cifEmpresa"`
}

// PagoTarjeta es el detalle de un cargo con tarjeta de débito.
type PagoTarjeta struct {
	NumeroTarjeta  string          `bson:"numero_tarjeta" json:"numeroTarjeta"`
	Cantidad       decimal.Decimal `bson:"cantidad" json:"cantidad"`
	NombreComercio string          `bson:"nombre_comercio" json:"nombreComercio"`
}

// Transferencia es el detalle de una transferencia. La cantidad lleva signo:
// negativa en el movimiento de la cuenta origen, positiva en el de destino.
// MovimientoDestino enlaza (solo desde el lado origen) con el guid del
// movimiento de abono de la contraparte.
type Transferencia struct {
	IbanOrigen         string          `bson:"iban_origen" json:"ibanOrigen"`
	IbanDestino        string          `bson:"iban_destino" json:"ibanDestino"`
	Cantidad           decimal.Decimal `bson:"cantidad" json:"cantidad"`
	NombreBeneficiario string          `bson:"nombre_beneficiario" json:"nombreBeneficiario"`
	MovimientoDestino  string          `bson:"movimiento_destino,omitempty" json:"movimientoDestino,omitempty"`
}

// Movimiento es un apunte del libro mayor, inmutable una vez asentado.
// Se identifica por el _id interno de Mongo y por un guid externo de
// correlación generado al crearlo. IsDeleted marca un movimiento revocado;
// el apunte nunca se elimina físicamente.
type Movimiento struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Guid        string             `bson:"guid" json:"guid"`
	ClienteGuid string             `bson:"cliente_guid" json:"clienteGuid"`
	Tipo        TipoMovimiento     `bson:"tipo" json:"tipo"`

	Domiciliacion *DatosDomiciliacion `bson:"domiciliacion,omitempty" json:"domiciliacion,omitempty"`
	IngresoNomina *IngresoNomina      `bson:"ingreso_nomina,omitempty" json:"ingresoNomina,omitempty"`
	PagoTarjeta   *PagoTarjeta        `bson:"pago_tarjeta,omitempty" json:"pagoTarjeta,omitempty"`
	Transferencia *Transferencia      `bson:"transferencia,omitempty" json:"transferencia,omitempty"`

	IsDeleted bool      `bson:"is_deleted" json:"isDeleted"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

func nuevoMovimiento(clienteGuid string, guid string, now time.Time) Movimiento {
	return Movimiento{
		Guid:        guid,
		ClienteGuid: clienteGuid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewMovimientoDomiciliacion crea el apunte de un cargo domiciliado.
func NewMovimientoDomiciliacion(clienteGuid, guid string, now time.Time, datos DatosDomiciliacion) Movimiento {
	m := nuevoMovimiento(clienteGuid, guid, now)
	m.Tipo = TipoDomiciliacion
	m.Domiciliacion = &datos
	return m
}

// NewMovimientoIngresoNomina crea el apunte de un abono de nómina.
func NewMovimientoIngresoNomina(clienteGuid, guid string, now time.Time, datos IngresoNomina) Movimiento {
	m := nuevoMovimiento(clienteGuid, guid, now)
	m.Tipo = TipoIngresoNomina
	m.IngresoNomina = &datos
	return m
}

// NewMovimientoPagoTarjeta crea el apunte de un pago con tarjeta.
func NewMovimientoPagoTarjeta(clienteGuid, guid string, now time.Time, datos PagoTarjeta) Movimiento {
	m := nuevoMovimiento(clienteGuid, guid, now)
	m.Tipo = TipoPagoTarjeta
	m.PagoTarjeta = &datos
	return m
}

// NewMovimientoTransferencia crea uno de los dos apuntes de una transferencia.
func NewMovimientoTransferencia(clienteGuid, guid string, now time.Time, datos Transferencia) Movimiento {
	m := nuevoMovimiento(clienteGuid, guid, now)
	m.Tipo = TipoTransferencia
	m.Transferencia = &datos
	return m
}

// EsTransferencia indica si el movimiento es revocable como transferencia.
func (m *Movimiento) EsTransferencia() bool {
	return m.Tipo == TipoTransferencia && m.Transferencia != nil
}
