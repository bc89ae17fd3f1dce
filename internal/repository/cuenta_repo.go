package repository

import (
	"context"
	"errors"

	"movibanca/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrConflictoVersion señala que ApplyDelta perdió la carrera de concurrencia
// optimista: otra escritura avanzó la versión de la cuenta entre la lectura
// y la escritura. El llamante debe releer y reintentar.
var ErrConflictoVersion = errors.New("conflicto de version al actualizar saldo")

// CuentaRepository es la pasarela de saldos: resolución de cuentas por IBAN
// o por cliente y escritura de saldo con compare-and-swap sobre la columna
// version.
type CuentaRepository interface {
	FindByIban(ctx context.Context, iban string) (*model.Cuenta, error)
	FindByClienteID(ctx context.Context, clienteID uuid.UUID) ([]model.Cuenta, error)
	Create(ctx context.Context, c *model.Cuenta) error
	// ApplyDelta reemplaza el saldo de la cuenta si y solo si la versión no ha
	// cambiado desde la lectura. Devuelve ErrConflictoVersion en caso contrario.
	ApplyDelta(ctx context.Context, cuentaID uuid.UUID, nuevoSaldo decimal.Decimal, version int64) error
}

type cuentaRepo struct{ db *gorm.DB }

func NewCuentaRepository(db *gorm.DB) CuentaRepository { return &cuentaRepo{db: db} }

func (r *cuentaRepo) FindByIban(ctx context.Context, iban string) (*model.Cuenta, error) {
	var c model.Cuenta
	err := r.db.WithContext(ctx).Preload("Cliente").Preload("Tarjeta").
		Where("iban = ?", iban).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cuentaRepo) FindByClienteID(ctx context.Context, clienteID uuid.UUID) ([]model.Cuenta, error) {
	cuentas := make([]model.Cuenta, 0)
	err := r.db.WithContext(ctx).Preload("Tarjeta").
		Where("cliente_id = ?", clienteID).Find(&cuentas).Error
	return cuentas, err
}

func (r *cuentaRepo) Create(ctx context.Context, c *model.Cuenta) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cuentaRepo) ApplyDelta(ctx context.Context, cuentaID uuid.UUID, nuevoSaldo decimal.Decimal, version int64) error {
	res := r.db.WithContext(ctx).Model(&model.Cuenta{}).
		Where("id = ? AND version = ?", cuentaID, version).
		Updates(map[string]interface{}{
			"saldo":   nuevoSaldo,
			"version": version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflictoVersion
	}
	return nil
}
