package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ratecard-telegram-bot/internal/rate"
)

// BotConfig configuration of the bot
type BotConfig struct {
	Token           string
	Debug           bool
	UpdatesTimeout  int
	StorageChatID   int64
	RendererBaseURL string
}

// botAPI is the slice of the bot API the handlers and the publisher use.
// *tgbotapi.BotAPI satisfies it; tests substitute a fake.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot telegram interaction client
type Bot struct {
	Bot       *tgbotapi.BotAPI
	Config    BotConfig
	api       botAPI
	publisher *Publisher
	fetch     func(url string) ([]byte, error)
}

// Message a telegram message struct
type Message struct {
	ChatID    int
	MessageID int
	Text      string
}

// Artifact is a rendered rate card ready to publish: the image bytes, the
// caption that travels with them and the request they were rendered for.
type Artifact struct {
	Image   []byte
	Caption string
	Request rate.Request
}
