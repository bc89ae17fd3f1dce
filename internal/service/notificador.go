package service

import (
	"context"
	"time"
)

// Tipo de toda notificación emitida por el motor al crear o revocar.
const NotificacionCreate = "CREATE"

// Notificacion es el sobre que recibe el sumidero de notificaciones
// (la pasarela websocket por detrás de la cola). Data transporta el objeto
// de dominio creado o actualizado.
type Notificacion struct {
	Tipo      string      `json:"tipo"`
	CreatedAt time.Time   `json:"createdAt"`
	Data      interface{} `json:"data"`
}

// Notificador entrega una notificación al usuario indicado. La entrega es
// best-effort: un fallo de notificación nunca revierte el asiento contable.
type Notificador interface {
	Notificar(ctx context.Context, usuarioGuid string, n Notificacion) error
}
