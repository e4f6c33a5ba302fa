package notificator

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Infra struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewInfra поднимает админского бота из ALERT_BOT_TOKEN / ALERT_CHAT_ID.
// Без токена возвращает пустую инфру: Notify превращается в no-op,
// сервис работает и без алертов.
func NewInfra() *Infra {
	token := os.Getenv("ALERT_BOT_TOKEN")
	chatStr := os.Getenv("ALERT_CHAT_ID")
	if token == "" || chatStr == "" {
		return &Infra{}
	}

	chatID, err := strconv.ParseInt(chatStr, 10, 64)
	if err != nil {
		log.Printf("[notificator] bad ALERT_CHAT_ID %q: %v", chatStr, err)
		return &Infra{}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("[notificator] bot init failed: %v", err)
		return &Infra{}
	}

	return &Infra{bot: bot, chatID: chatID}
}

func (i *Infra) Notify(_ context.Context, err error, details string) error {
	if i.bot == nil {
		return nil
	}

	text := fmt.Sprintf(
		"❗ Ошибка в critical_chat\n\nОшибка: %v\n\nДетали: %s",
		err,
		details,
	)

	_, sendErr := i.bot.Send(tgbotapi.NewMessage(i.chatID, text))
	if sendErr != nil {
		log.Printf("[notificator] send fail: %v", sendErr)
		return sendErr
	}
	return nil
}
