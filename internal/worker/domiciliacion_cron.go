package worker

// domiciliacion_cron.go
// Background goroutine that periodically re-evaluates active domiciliaciones
// and posts the due cobros through the movement engine. Una domiciliación
// rechazada por saldo insuficiente no avanza su última ejecución: sigue
// vencida y se reintenta en el siguiente ciclo; tras MaxFallos rechazos
// consecutivos se desactiva, se envía a la DLQ y se avisa al titular.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"movibanca/internal/model"
	"movibanca/internal/repository"
	"movibanca/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const colaDomiciliaciones = "domiciliaciones"

// DomiciliacionCronConfig holds all dependencies for the scheduler goroutine.
type DomiciliacionCronConfig struct {
	Registro   repository.DomiciliacionRepository
	Motor      service.MovimientoService
	Cuentas    repository.CuentaRepository
	Clientes   repository.ClienteRepository
	Dispatcher *Dispatcher
	RDB        *redis.Client
	Tick       time.Duration
	MaxFallos  int
}

// StartDomiciliacionCron launches a background goroutine that ticks every
// cfg.Tick, scans active mandates, and executes the due ones sequentially.
// It respects the context for graceful shutdown.
func StartDomiciliacionCron(ctx context.Context, cfg DomiciliacionCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Tick)
		defer ticker.Stop()

		log.Info().Dur("tick", cfg.Tick).Msg("domiciliacion_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("domiciliacion_cron: shutting down")
				return
			case <-ticker.C:
				ProcesarCiclo(ctx, cfg)
			}
		}
	}()
}

// ProcesarCiclo ejecuta un barrido completo: Scan → Execute (secuencial)
// → persistencia de las actualizaciones (concurrente, esperada al final).
func ProcesarCiclo(ctx context.Context, cfg DomiciliacionCronConfig) {
	now := time.Now()

	activas, err := cfg.Registro.FindActivas(ctx)
	if err != nil {
		log.Error().Err(err).Msg("domiciliacion_cron: failed to query active mandates")
		return
	}

	vencidas := make([]model.Domiciliacion, 0)
	for _, d := range activas {
		if d.Vencida(now) {
			vencidas = append(vencidas, d)
		}
	}
	if len(vencidas) == 0 {
		return
	}

	log.Info().Int("count", len(vencidas)).Msg("domiciliacion_cron: processing due mandates")

	// Ejecución secuencial: dos cobros entrelazados sobre la misma cuenta
	// podrían leer el mismo saldo y cobrar dos veces.
	actualizadas := make([]*model.Domiciliacion, 0, len(vencidas))
	for i := range vencidas {
		d := &vencidas[i]

		_, execErr := cfg.Motor.EjecutarDomiciliacion(ctx, d)

		var saldoErr *service.SaldoInsuficienteError
		switch {
		case execErr == nil:
			d.UltimaEjecucion = time.Now()
			d.FallosSeguidos = 0
			actualizadas = append(actualizadas, d)

		case errors.As(execErr, &saldoErr):
			d.FallosSeguidos++
			log.Warn().
				Str("guid", d.Guid).
				Str("iban_origen", d.IbanOrigen).
				Int("fallos_seguidos", d.FallosSeguidos).
				Msg("domiciliacion_cron: cobro rechazado por saldo insuficiente")

			if cfg.MaxFallos > 0 && d.FallosSeguidos >= cfg.MaxFallos {
				d.Activa = false
				moverAImpagados(ctx, cfg, d)
			}
			actualizadas = append(actualizadas, d)

		default:
			// Fallo transitorio (cuenta irresoluble, almacén caído): no se
			// persiste nada y el mandato se reevalúa en el siguiente ciclo.
			log.Error().Err(execErr).Str("guid", d.Guid).
				Msg("domiciliacion_cron: fallo al ejecutar la domiciliacion")
		}
	}

	// Las persistencias se despachan concurrentes y se esperan todas antes
	// de cerrar el ciclo.
	var wg sync.WaitGroup
	for _, d := range actualizadas {
		wg.Add(1)
		go func(d *model.Domiciliacion) {
			defer wg.Done()
			if _, err := cfg.Registro.Update(ctx, d); err != nil {
				log.Error().Err(err).Str("guid", d.Guid).
					Msg("domiciliacion_cron: fallo al persistir la actualizacion")
			}
		}(d)
	}
	wg.Wait()
}

// moverAImpagados registra la desactivación en la DLQ y avisa al titular por
// email. Ambas acciones son best-effort.
func moverAImpagados(ctx context.Context, cfg DomiciliacionCronConfig, d *model.Domiciliacion) {
	log.Error().
		Str("guid", d.Guid).
		Int("fallos", d.FallosSeguidos).
		Msg("domiciliacion_cron: maximo de impagos alcanzado, se desactiva")

	if cfg.RDB != nil {
		payload, _ := json.Marshal(d)
		SendToDLQ(ctx, cfg.RDB, colaDomiciliaciones, "cobro", payload,
			fmt.Sprintf("max impagos (%d) alcanzado en %s", cfg.MaxFallos, d.IbanOrigen),
			d.FallosSeguidos)
	}

	if cfg.Dispatcher == nil || cfg.Cuentas == nil || cfg.Clientes == nil {
		return
	}
	cuenta, err := cfg.Cuentas.FindByIban(ctx, d.IbanOrigen)
	if err != nil {
		log.Warn().Err(err).Str("iban", d.IbanOrigen).Msg("domiciliacion_cron: titular no resuelto para el aviso")
		return
	}
	cliente, err := cfg.Clientes.FindByID(ctx, cuenta.ClienteID)
	if err != nil {
		log.Warn().Err(err).Str("cliente_guid", cuenta.ClienteID.String()).Msg("domiciliacion_cron: cliente no resuelto para el aviso")
		return
	}

	aviso := EmailJobPayload{
		ToEmail: cliente.Email,
		Subject: "Domiciliacion desactivada por impagos",
		Body: fmt.Sprintf(
			"La domiciliacion a favor de %s por %s EUR se ha desactivado tras %d intentos de cobro sin saldo suficiente.",
			d.NombreAcreedor, d.Cantidad.StringFixed(2), d.FallosSeguidos),
	}
	if err := cfg.Dispatcher.EnqueueEmail(ctx, aviso); err != nil {
		log.Warn().Err(err).Msg("domiciliacion_cron: fallo al encolar el aviso de impago")
	}
}
