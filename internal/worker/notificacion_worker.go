package worker

// notificacion_worker.go
// Entrega las notificaciones encoladas por el motor de movimientos al canal
// por usuario del que consume la pasarela websocket. La pasarela en sí es un
// sumidero opaco: aquí solo se publica y se guarda un pequeño historial.

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	notificacionChannelPrefix = "notificaciones:"
	notificacionBacklogMax    = 50
)

type NotificacionWorker struct {
	rdb *redis.Client
}

func NewNotificacionWorker(rdb *redis.Client) *NotificacionWorker {
	return &NotificacionWorker{rdb: rdb}
}

// Process publica la notificación en el canal del usuario y la añade a su
// historial acotado.
func (w *NotificacionWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload NotificacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notificacion_worker: payload invalido")
		return
	}
	if payload.UsuarioGuid == "" {
		log.Warn().Msg("notificacion_worker: usuario_guid vacio — se descarta")
		return
	}

	data, err := json.Marshal(payload.Notificacion)
	if err != nil {
		log.Error().Err(err).Msg("notificacion_worker: no se pudo serializar la notificacion")
		return
	}

	key := notificacionChannelPrefix + payload.UsuarioGuid
	if err := w.rdb.Publish(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("usuario_guid", payload.UsuarioGuid).
			Msg("notificacion_worker: fallo al publicar")
		return
	}

	// Historial por usuario, recortado para no crecer sin límite.
	pipe := w.rdb.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, notificacionBacklogMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Str("usuario_guid", payload.UsuarioGuid).
			Msg("notificacion_worker: fallo al guardar el historial")
	}

	log.Info().Str("usuario_guid", payload.UsuarioGuid).
		Str("tipo", payload.Notificacion.Tipo).
		Msg("notificacion entregada")
}
