package relay

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest — пустой callerID или пустое сообщение после trim
var ErrInvalidRequest = errors.New("phone number and message are required")

// ProviderError — внешний провайдер не вернул пригодный ответ:
// таймаут, не-2xx статус или пустое тело. Ход в историю не пишется.
type ProviderError struct {
	Status int
	Detail string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider error (status %d): %s", e.Status, e.Detail)
	}
	return "provider error: " + e.Detail
}

func (e *ProviderError) Unwrap() error { return e.Err }

// StorageError — отказ хранилища до того, как получен ответ провайдера.
// Чтение истории с ошибкой никогда не подменяется пустым контекстом.
type StorageError struct {
	Op  string // "read" | "append"
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// TurnWriteError — ответ провайдера уже получен (и оплачен), но записать
// ход не удалось. Отдельный тип, чтобы оператор отличал «ответ потерян»
// от «ответ был, но не записан».
type TurnWriteError struct {
	Reply string
	Err   error
}

func (e *TurnWriteError) Error() string {
	return fmt.Sprintf("reply produced but turn not recorded: %v", e.Err)
}

func (e *TurnWriteError) Unwrap() error { return e.Err }

// RenderError — ход уже записан, но отрендерить ответ не удалось.
// История цела, потерян только вывод наружу.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("reply recorded but rendering failed: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
