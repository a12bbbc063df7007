package notification

import (
	"context"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
)

// Deliverer отвечает за транспорт уже созданного уведомления.
type Deliverer interface {
	Deliver(ctx context.Context, n *entity.Notification) error
}

// DelivererFunc позволяет использовать функцию как Deliverer.
type DelivererFunc func(ctx context.Context, n *entity.Notification) error

func (f DelivererFunc) Deliver(ctx context.Context, n *entity.Notification) error {
	return f(ctx, n)
}

// Discard ничего не доставляет.
var Discard Deliverer = DelivererFunc(func(context.Context, *entity.Notification) error { return nil })
