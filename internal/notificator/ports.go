package notificator

import "context"

type Notificator interface {
	// Notify — отправляет сообщение об ошибке админу
	Notify(ctx context.Context, err error, details string) error
}
