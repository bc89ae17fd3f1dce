package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"movibanca/internal/dto"
	"movibanca/internal/model"
	"movibanca/internal/repository"
	"movibanca/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// stubRegistro es un DomiciliacionRepository en memoria para el cron.
type stubRegistro struct {
	mandatos map[string]*model.Domiciliacion
	orden    []string
	updates  int
}

func newStubRegistro(mandatos ...*model.Domiciliacion) *stubRegistro {
	r := &stubRegistro{mandatos: make(map[string]*model.Domiciliacion)}
	for _, d := range mandatos {
		r.mandatos[d.Guid] = d
		r.orden = append(r.orden, d.Guid)
	}
	return r
}

func (r *stubRegistro) FindAll(_ context.Context) ([]model.Domiciliacion, error) {
	out := make([]model.Domiciliacion, 0, len(r.orden))
	for _, g := range r.orden {
		out = append(out, *r.mandatos[g])
	}
	return out, nil
}

func (r *stubRegistro) FindActivas(_ context.Context) ([]model.Domiciliacion, error) {
	out := make([]model.Domiciliacion, 0)
	for _, g := range r.orden {
		if r.mandatos[g].Activa {
			out = append(out, *r.mandatos[g])
		}
	}
	return out, nil
}

func (r *stubRegistro) FindByGuid(_ context.Context, guid string) (*model.Domiciliacion, error) {
	d, ok := r.mandatos[guid]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copia := *d
	return &copia, nil
}

func (r *stubRegistro) FindByClienteGuid(_ context.Context, _ string) ([]model.Domiciliacion, error) {
	return nil, nil
}

func (r *stubRegistro) FindActivasByClienteGuid(_ context.Context, _ string) ([]model.Domiciliacion, error) {
	return nil, nil
}

func (r *stubRegistro) Create(_ context.Context, d *model.Domiciliacion) error {
	r.mandatos[d.Guid] = d
	r.orden = append(r.orden, d.Guid)
	return nil
}

func (r *stubRegistro) Update(_ context.Context, d *model.Domiciliacion) (*model.Domiciliacion, error) {
	if _, ok := r.mandatos[d.Guid]; !ok {
		return nil, mongo.ErrNoDocuments
	}
	copia := *d
	r.mandatos[d.Guid] = &copia
	r.updates++
	return d, nil
}

func (r *stubRegistro) Delete(_ context.Context, _ primitive.ObjectID) error { return nil }

var _ repository.DomiciliacionRepository = (*stubRegistro)(nil)

// stubMotor simula el motor de movimientos; fallos configura qué IBAN de
// origen rechaza cada ejecución y con qué error.
type stubMotor struct {
	fallos     map[string]error
	ejecutadas []string
}

func (m *stubMotor) EjecutarDomiciliacion(_ context.Context, d *model.Domiciliacion) (*model.Movimiento, error) {
	m.ejecutadas = append(m.ejecutadas, d.Guid)
	if err, ok := m.fallos[d.IbanOrigen]; ok {
		return nil, err
	}
	mov := model.NewMovimientoDomiciliacion(d.ClienteGuid, uuid.NewString(), time.Now(), model.DatosDomiciliacion{
		DomiciliacionGuid: d.Guid,
		IbanOrigen:        d.IbanOrigen,
		IbanDestino:       d.IbanDestino,
		Cantidad:          d.Cantidad,
	})
	return &mov, nil
}

func (m *stubMotor) FindAll(_ context.Context) ([]model.Movimiento, error)       { return nil, nil }
func (m *stubMotor) FindByGuid(_ context.Context, _ string) (*model.Movimiento, error) {
	return nil, nil
}
func (m *stubMotor) FindByCliente(_ context.Context, _ string) ([]model.Movimiento, error) {
	return nil, nil
}
func (m *stubMotor) FindByClienteYTipo(_ context.Context, _ string, _ model.TipoMovimiento) ([]model.Movimiento, error) {
	return nil, nil
}
func (m *stubMotor) DomiciliacionesDelCliente(_ context.Context, _ uuid.UUID) ([]model.Domiciliacion, error) {
	return nil, nil
}
func (m *stubMotor) RegistrarDomiciliacion(_ context.Context, _ uuid.UUID, _ dto.DomiciliacionRequest) (*model.Domiciliacion, error) {
	return nil, nil
}
func (m *stubMotor) RegistrarIngresoNomina(_ context.Context, _ uuid.UUID, _ dto.IngresoNominaRequest) (*model.Movimiento, error) {
	return nil, nil
}
func (m *stubMotor) RegistrarPagoTarjeta(_ context.Context, _ uuid.UUID, _ dto.PagoTarjetaRequest) (*model.Movimiento, error) {
	return nil, nil
}
func (m *stubMotor) RegistrarTransferencia(_ context.Context, _ uuid.UUID, _ dto.TransferenciaRequest) (*model.Movimiento, error) {
	return nil, nil
}
func (m *stubMotor) RevocarTransferencia(_ context.Context, _ uuid.UUID, _ string) (*model.Movimiento, error) {
	return nil, nil
}

var _ service.MovimientoService = (*stubMotor)(nil)

func mandato(iban string, periodicidad model.Periodicidad, ultima time.Time) *model.Domiciliacion {
	return &model.Domiciliacion{
		Guid:            uuid.NewString(),
		ClienteGuid:     uuid.NewString(),
		IbanOrigen:      iban,
		IbanDestino:     "FR1420041010050500013M02606",
		Cantidad:        decimal.NewFromFloat(30),
		Periodicidad:    periodicidad,
		Activa:          true,
		UltimaEjecucion: ultima,
	}
}

func TestProcesarCiclo_SoloEjecutaVencidas(t *testing.T) {
	now := time.Now()
	vencida := mandato("ES9121000418450200051332", model.PeriodicidadDiaria, now.AddDate(0, 0, -2))
	alDia := mandato("DE89370400440532013000", model.PeriodicidadMensual, now.AddDate(0, 0, -3))
	inactiva := mandato("GB82WEST12345698765432", model.PeriodicidadDiaria, now.AddDate(0, 0, -2))
	inactiva.Activa = false

	registro := newStubRegistro(vencida, alDia, inactiva)
	motor := &stubMotor{}

	ProcesarCiclo(context.Background(), DomiciliacionCronConfig{
		Registro:  registro,
		Motor:     motor,
		MaxFallos: 3,
	})

	require.Equal(t, []string{vencida.Guid}, motor.ejecutadas)

	// Un cobro asentado avanza la última ejecución y limpia los fallos.
	actualizada := registro.mandatos[vencida.Guid]
	assert.WithinDuration(t, now, actualizada.UltimaEjecucion, 5*time.Second)
	assert.Zero(t, actualizada.FallosSeguidos)
	assert.Equal(t, 1, registro.updates)
}

func TestProcesarCiclo_SinSaldoAcumulaFallos(t *testing.T) {
	now := time.Now()
	d := mandato("ES9121000418450200051332", model.PeriodicidadDiaria, now.AddDate(0, 0, -2))
	d.FallosSeguidos = 1

	registro := newStubRegistro(d)
	motor := &stubMotor{fallos: map[string]error{
		d.IbanOrigen: &service.SaldoInsuficienteError{Clave: d.IbanOrigen},
	}}

	ProcesarCiclo(context.Background(), DomiciliacionCronConfig{
		Registro:  registro,
		Motor:     motor,
		MaxFallos: 3,
	})

	actualizada := registro.mandatos[d.Guid]
	assert.Equal(t, 2, actualizada.FallosSeguidos)
	assert.True(t, actualizada.Activa)
	// La última ejecución no avanza: sigue vencida para el siguiente ciclo.
	assert.Equal(t, d.UltimaEjecucion, actualizada.UltimaEjecucion)
}

func TestProcesarCiclo_MaxFallosDesactiva(t *testing.T) {
	now := time.Now()
	d := mandato("ES9121000418450200051332", model.PeriodicidadDiaria, now.AddDate(0, 0, -2))
	d.FallosSeguidos = 2

	registro := newStubRegistro(d)
	motor := &stubMotor{fallos: map[string]error{
		d.IbanOrigen: &service.SaldoInsuficienteError{Clave: d.IbanOrigen},
	}}

	ProcesarCiclo(context.Background(), DomiciliacionCronConfig{
		Registro:  registro,
		Motor:     motor,
		MaxFallos: 3,
	})

	actualizada := registro.mandatos[d.Guid]
	assert.Equal(t, 3, actualizada.FallosSeguidos)
	assert.False(t, actualizada.Activa)
}

func TestProcesarCiclo_FalloTransitorioNoPersiste(t *testing.T) {
	now := time.Now()
	d := mandato("ES9121000418450200051332", model.PeriodicidadDiaria, now.AddDate(0, 0, -2))

	registro := newStubRegistro(d)
	motor := &stubMotor{fallos: map[string]error{
		d.IbanOrigen: errors.New("mongo: connection refused"),
	}}

	ProcesarCiclo(context.Background(), DomiciliacionCronConfig{
		Registro:  registro,
		Motor:     motor,
		MaxFallos: 3,
	})

	// Ni fallos acumulados ni actualización: se reintenta tal cual.
	actualizada := registro.mandatos[d.Guid]
	assert.Zero(t, actualizada.FallosSeguidos)
	assert.True(t, actualizada.Activa)
	assert.Zero(t, registro.updates)
}
