package history

import "strings"

// Pair — ключ партиционирования истории: (нормализованный caller, topic).
// Поля уже безопасны для использования как имя файла или ключ в таблице.
type Pair struct {
	Caller string
	Topic  string
}

// NewPair нормализует внешний callerID ровно один раз, здесь.
// Дальше по коду ходят только безопасные ключи.
func NewPair(callerID, topicKey string) Pair {
	return Pair{
		Caller: safeKey(callerID),
		Topic:  safeKey(topicKey),
	}
}

func (p Pair) Key() string {
	return p.Caller + "_" + p.Topic
}

// safeKey заменяет всё, кроме [a-zA-Z0-9], на '_'
func safeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
