package dto

import "github.com/shopspring/decimal"

// Rango declarado de importes por operación: 1–10000. El motor vuelve a
// comprobar cantidad > 0; el validador de la capa HTTP aplica el tope.

type IngresoNominaRequest struct {
	IbanOrigen    string          `json:"ibanOrigen" validate:"required"`
	IbanDestino   string          `json:"ibanDestino" validate:"required"`
	Cantidad      decimal.Decimal `json:"cantidad" validate:"required,gt=0,lte=10000"`
	NombreEmpresa string          `json:"nombreEmpresa" validate:"required"`
	CifEmpresa    string          `json:"cifEmpresa" validate:"required"`
}

type PagoTarjetaRequest struct {
	NumeroTarjeta  string          `json:"numeroTarjeta" validate:"required"`
	Cantidad       decimal.Decimal `json:"cantidad" validate:"required,gt=0,lte=10000"`
	NombreComercio string          `json:"nombreComercio" validate:"required"`
}

type TransferenciaRequest struct {
	IbanOrigen         string          `json:"ibanOrigen" validate:"required"`
	IbanDestino        string          `json:"ibanDestino" validate:"required"`
	Cantidad           decimal.Decimal `json:"cantidad" validate:"required,gt=0,lte=10000"`
	NombreBeneficiario string          `json:"nombreBeneficiario" validate:"required"`
}
