package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente es el titular de cuentas y tarjetas. Cada cliente pertenece a un
// usuario del sistema (su acceso de banca online).
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Dni       string    `gorm:"type:varchar(9);uniqueIndex;not null"`
	Nombre    string    `gorm:"not null"`
	Apellidos string    `gorm:"not null"`
	Email     string    `gorm:"not null"`
	Telefono  *string
	UsuarioID uuid.UUID `gorm:"type:uuid;index;not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Usuario *Usuario `gorm:"foreignKey:UsuarioID"`
}
