package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cuenta es una cuenta bancaria con su saldo actual. Version es el sello de
// concurrencia optimista: toda escritura de saldo compara y avanza la
// versión, de modo que dos movimientos concurrentes sobre la misma cuenta
// no puedan pisarse la lectura (lost update).
type Cuenta struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Iban      string          `gorm:"type:varchar(34);uniqueIndex;not null"`
	ClienteID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Saldo     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Version   int64           `gorm:"not null;default:0"`
	TarjetaID *uuid.UUID      `gorm:"type:uuid;index"`
	Activa    bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
	Tarjeta *Tarjeta `gorm:"foreignKey:TarjetaID"`
}
