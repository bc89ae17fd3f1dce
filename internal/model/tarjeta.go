package model

import (
	"time"

	"github.com/google/uuid"
)

// Tarjeta es la tarjeta de débito vinculada a una cuenta. El número es el
// PAN de 16 dígitos con el que se casan los pagos con tarjeta.
type Tarjeta struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero         string    `gorm:"type:varchar(16);uniqueIndex;not null"`
	Titular        string    `gorm:"not null"`
	FechaCaducidad string    `gorm:"type:varchar(5);not null"` // MM/YY
	Activa         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
