package tg

import (
	gobot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// Notifier pushes one-way trade notifications to a Telegram chat. An empty
// token yields a nil Notifier, which every method tolerates.
type Notifier struct {
	bot    *gobot.BotAPI
	chatID int64
}

func New(token string, chatID int64) *Notifier {
	if token == "" {
		log.Warn().Msg("TG token empty: notifications disabled")
		return nil
	}
	bot, err := gobot.NewBotAPI(token)
	if err != nil {
		log.Error().Err(err).Msg("telegram connect failed, notifications disabled")
		return nil
	}
	bot.Debug = false
	log.Info().Str("@", bot.Self.UserName).Msg("Telegram connected")
	return &Notifier{bot: bot, chatID: chatID}
}

func (n *Notifier) Notify(text string) {
	if n == nil || n.bot == nil {
		return
	}
	msg := gobot.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		log.Error().Err(err).Msg("send tg msg")
	}
}
