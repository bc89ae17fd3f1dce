package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio del motor de movimientos. Los validadores devuelven
// booleanos; este es el único nivel que convierte una validación fallida o
// una ausencia en un error tipado. Cada error lleva la clave de búsqueda u
// objeto que lo provocó.

// ── No encontrado (404) ───────────────────────────────────────────────────────

type ClienteNotFoundError struct{ UsuarioGuid string }

func (e *ClienteNotFoundError) Error() string {
	return fmt.Sprintf("cliente no encontrado para el usuario %s", e.UsuarioGuid)
}

type UsuarioNotFoundError struct{ Guid string }

func (e *UsuarioNotFoundError) Error() string {
	return fmt.Sprintf("usuario no encontrado: %s", e.Guid)
}

type CuentaNotFoundError struct{ Clave string }

func (e *CuentaNotFoundError) Error() string {
	return fmt.Sprintf("cuenta no encontrada: %s", e.Clave)
}

type MovimientoNotFoundError struct{ Guid string }

func (e *MovimientoNotFoundError) Error() string {
	return fmt.Sprintf("movimiento no encontrado: %s", e.Guid)
}

// ── Validación (400) ──────────────────────────────────────────────────────────

type CantidadInvalidaError struct{ Cantidad decimal.Decimal }

func (e *CantidadInvalidaError) Error() string {
	return fmt.Sprintf("cantidad invalida: %s", e.Cantidad)
}

// IbanInvalidoError distingue en Campo si el IBAN rechazado era el de origen
// o el de destino; el orden de comprobación de cada operación es estable.
type IbanInvalidoError struct {
	Iban  string
	Campo string // "origen" | "destino"
}

func (e *IbanInvalidoError) Error() string {
	return fmt.Sprintf("iban de %s invalido: %s", e.Campo, e.Iban)
}

type CifInvalidoError struct{ Cif string }

func (e *CifInvalidoError) Error() string {
	return fmt.Sprintf("cif invalido: %s", e.Cif)
}

// TarjetaInvalidaError cubre tanto un número mal formado como una tarjeta
// que no pertenece a ninguna cuenta del cliente; ambos casos se presentan
// igual al exterior para no revelar la existencia de tarjetas ajenas.
type TarjetaInvalidaError struct{ Numero string }

func (e *TarjetaInvalidaError) Error() string {
	return fmt.Sprintf("numero de tarjeta invalido: %s", e.Numero)
}

type MismoIbanError struct{ Iban string }

func (e *MismoIbanError) Error() string {
	return fmt.Sprintf("el iban de origen y destino coinciden: %s", e.Iban)
}

// ── Conflicto (409) ───────────────────────────────────────────────────────────

type DomiciliacionDuplicadaError struct{ IbanDestino string }

func (e *DomiciliacionDuplicadaError) Error() string {
	return fmt.Sprintf("ya existe una domiciliacion activa hacia %s", e.IbanDestino)
}

// ── Violación de política (400) ───────────────────────────────────────────────

type SaldoInsuficienteError struct{ Clave string }

func (e *SaldoInsuficienteError) Error() string {
	return fmt.Sprintf("saldo insuficiente en %s", e.Clave)
}

type NoRevocableError struct{ Guid string }

func (e *NoRevocableError) Error() string {
	return fmt.Sprintf("el movimiento %s ya no es revocable", e.Guid)
}

type NoEsTransferenciaError struct{ Guid string }

func (e *NoEsTransferenciaError) Error() string {
	return fmt.Sprintf("el movimiento %s no es una transferencia", e.Guid)
}

// CuentaAjenaError: la cuenta existe pero pertenece a otro cliente.
type CuentaAjenaError struct{ Iban string }

func (e *CuentaAjenaError) Error() string {
	return fmt.Sprintf("la cuenta %s no pertenece al cliente", e.Iban)
}

// MovimientoAjenoError: el movimiento existe pero pertenece a otro cliente.
// Variante separada de CuentaAjenaError para diagnósticos claros.
type MovimientoAjenoError struct{ Guid string }

func (e *MovimientoAjenoError) Error() string {
	return fmt.Sprintf("el movimiento %s no pertenece al cliente", e.Guid)
}
