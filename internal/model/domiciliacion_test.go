package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDomiciliacionVencida(t *testing.T) {
	// 31 de julio para que el mes de referencia tenga 31 días.
	now := time.Date(2025, time.July, 31, 12, 0, 0, 0, time.UTC)

	casos := []struct {
		nombre          string
		periodicidad    Periodicidad
		ultimaEjecucion time.Time
		vencida         bool
	}{
		{"diaria pasada", PeriodicidadDiaria, now.AddDate(0, 0, -1).Add(-time.Second), true},
		{"diaria reciente", PeriodicidadDiaria, now.Add(-23 * time.Hour), false},
		{"semanal pasada", PeriodicidadSemanal, now.AddDate(0, 0, -8), true},
		{"semanal reciente", PeriodicidadSemanal, now.AddDate(0, 0, -6), false},
		{"mensual un mes y un segundo", PeriodicidadMensual, now.AddDate(0, -1, 0).Add(-time.Second), true},
		{"mensual 29 dias en mes de 31", PeriodicidadMensual, now.AddDate(0, 0, -29), false},
		{"anual pasada", PeriodicidadAnual, now.AddDate(-1, 0, -1), true},
		{"anual reciente", PeriodicidadAnual, now.AddDate(0, -11, 0), false},
		{"periodicidad desconocida nunca vence", Periodicidad("QUINCENAL"), now.AddDate(-10, 0, 0), false},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			d := Domiciliacion{Periodicidad: c.periodicidad, UltimaEjecucion: c.ultimaEjecucion}
			assert.Equal(t, c.vencida, d.Vencida(now))
		})
	}
}

func TestDomiciliacionVencidaJustoEnElLimite(t *testing.T) {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	d := Domiciliacion{Periodicidad: PeriodicidadDiaria, UltimaEjecucion: now.AddDate(0, 0, -1)}
	// El instante exacto de la próxima ejecución ya cuenta como vencido.
	assert.True(t, d.Vencida(now))
}

func TestConstructoresMovimiento(t *testing.T) {
	now := time.Now()

	m := NewMovimientoPagoTarjeta("cli-1", "guid-1", now, PagoTarjeta{NumeroTarjeta: "1234567812345670"})
	assert.Equal(t, TipoPagoTarjeta, m.Tipo)
	assert.NotNil(t, m.PagoTarjeta)
	assert.Nil(t, m.Transferencia)
	assert.Nil(t, m.Domiciliacion)
	assert.Nil(t, m.IngresoNomina)
	assert.False(t, m.EsTransferencia())

	tr := NewMovimientoTransferencia("cli-1", "guid-2", now, Transferencia{IbanOrigen: "ES1", IbanDestino: "ES2"})
	assert.True(t, tr.EsTransferencia())
	assert.Equal(t, now, tr.CreatedAt)
	assert.Equal(t, now, tr.UpdatedAt)
}
