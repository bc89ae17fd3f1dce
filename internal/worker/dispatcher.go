package worker

import (
	"context"
	"encoding/json"

	"movibanca/internal/service"

	"github.com/redis/go-redis/v9"
)

const (
	QueueNotificaciones = "jobs:notificaciones"
	QueueEmail          = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NotificacionJobPayload viaja por QueueNotificaciones hasta el worker que
// la entrega al canal del usuario.
type NotificacionJobPayload struct {
	UsuarioGuid  string               `json:"usuario_guid"`
	Notificacion service.Notificacion `json:"notificacion"`
}

// EmailJobPayload viaja por QueueEmail hasta el worker SMTP.
type EmailJobPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP. El motor de movimientos lo usa
// como sumidero de notificaciones: encolar es fire-and-forget respecto al
// asiento contable.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher { return &Dispatcher{rdb: rdb} }

var _ service.Notificador = (*Dispatcher)(nil)

// Notificar pushes a user notification job to Redis.
func (d *Dispatcher) Notificar(ctx context.Context, usuarioGuid string, n service.Notificacion) error {
	return d.enqueue(ctx, QueueNotificaciones, "notificacion", NotificacionJobPayload{
		UsuarioGuid:  usuarioGuid,
		Notificacion: n,
	})
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
