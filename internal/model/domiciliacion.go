package model

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Periodicidad es el ciclo de cobro de una domiciliación.
type Periodicidad string

const (
	PeriodicidadDiaria  Periodicidad = "DIARIA"
	PeriodicidadSemanal Periodicidad = "SEMANAL"
	PeriodicidadMensual Periodicidad = "MENSUAL"
	PeriodicidadAnual   Periodicidad = "ANUAL"
)

// Domiciliacion es una autorización de cobro periódico contra una cuenta.
// Nunca se elimina físicamente: se desactiva. Como máximo puede existir una
// domiciliación activa por par (cliente, iban destino).
type Domiciliacion struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Guid            string             `bson:"guid" json:"guid"`
	ClienteGuid     string             `bson:"cliente_guid" json:"clienteGuid"`
	IbanOrigen      string             `bson:"iban_origen" json:"ibanOrigen"`
	IbanDestino     string             `bson:"iban_destino" json:"ibanDestino"`
	Cantidad        decimal.Decimal    `bson:"cantidad" json:"cantidad"`
	NombreAcreedor  string             `bson:"nombre_acreedor" json:"nombreAcreedor"`
	FechaInicio     time.Time          `bson:"fecha_inicio" json:"fechaInicio"`
	Periodicidad    Periodicidad       `bson:"periodicidad" json:"periodicidad"`
	Activa          bool               `bson:"activa" json:"activa"`
	UltimaEjecucion time.Time          `bson:"ultima_ejecucion" json:"ultimaEjecucion"`
	// FallosSeguidos cuenta los ciclos consecutivos rechazados por saldo
	// insuficiente; se pone a cero en cada cobro correcto.
	FallosSeguidos int       `bson:"fallos_seguidos" json:"-"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

// ProximaEjecucion calcula el siguiente instante de cobro a partir de la
// última ejecución. MENSUAL y ANUAL avanzan por calendario, no por número
// fijo de días.
func (d *Domiciliacion) ProximaEjecucion() (time.Time, bool) {
	switch d.Periodicidad {
	case PeriodicidadDiaria:
		return d.UltimaEjecucion.AddDate(0, 0, 1), true
	case PeriodicidadSemanal:
		return d.UltimaEjecucion.AddDate(0, 0, 7), true
	case PeriodicidadMensual:
		return d.UltimaEjecucion.AddDate(0, 1, 0), true
	case PeriodicidadAnual:
		return d.UltimaEjecucion.AddDate(1, 0, 0), true
	default:
		// Periodicidad desconocida: nunca vence.
		return time.Time{}, false
	}
}

// Vencida indica si el siguiente instante de cobro ya ha pasado.
func (d *Domiciliacion) Vencida(now time.Time) bool {
	next, ok := d.ProximaEjecucion()
	if !ok {
		return false
	}
	return !next.After(now)
}
