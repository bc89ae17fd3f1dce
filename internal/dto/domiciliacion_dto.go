package dto

import "github.com/shopspring/decimal"

type DomiciliacionRequest struct {
	IbanOrigen     string          `json:"ibanOrigen" validate:"required"`
	IbanDestino    string          `json:"ibanDestino" validate:"required"`
	Cantidad       decimal.Decimal `json:"cantidad" validate:"required,gt=0"`
	NombreAcreedor string          `json:"nombreAcreedor" validate:"required"`
	Periodicidad   string          `json:"periodicidad" validate:"required,oneof=DIARIA SEMANAL MENSUAL ANUAL"`
}
