package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"ratecard-telegram-bot/internal/caption"
	"ratecard-telegram-bot/internal/chart"
	"ratecard-telegram-bot/internal/rate"
	"ratecard-telegram-bot/lib/helpers"
	"ratecard-telegram-bot/lib/translation"
)

// NewBot creates new telegram bot
func NewBot(c BotConfig) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(c.Token)
	if err != nil {
		return nil, errors.Wrap(err, "could not create telegram bot")
	}

	bot.Debug = c.Debug

	return &Bot{
		Bot:       bot,
		Config:    c,
		api:       bot,
		publisher: NewPublisher(bot, c.StorageChatID),
		fetch:     chart.Fetch,
	}, nil
}

// GetUpdatesChannel gets new updates
func (b *Bot) GetUpdatesChannel() (tgbotapi.UpdatesChannel, error) {
	updatesConfig := tgbotapi.NewUpdate(0)
	if b.Config.UpdatesTimeout > 0 {
		updatesConfig.Timeout = b.Config.UpdatesTimeout
	}
	// Inline queries are not delivered unless asked for explicitly.
	updatesConfig.AllowedUpdates = []string{"message", "callback_query", "inline_query"}
	return b.Bot.GetUpdatesChan(updatesConfig), nil
}

// SendMessage sends a telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := tgbotapi.NewMessage(int64(m.ChatID), m.Text)
	msg.ReplyToMessageID = m.MessageID
	msg.DisableWebPagePreview = true
	msg.ParseMode = "MarkdownV2"
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message: %v", m)
}

// HandleUpdate processes Telegram command updates. A non-empty return value
// is sent back as a text reply; photo replies go out directly.
func (b *Bot) HandleUpdate(u tgbotapi.Update) string {
	log.Debugf("received command: %s", u.Message.Command())

	switch u.Message.Command() {
	case "start":
		return helpers.EscapeMarkdownV2(startMessage())
	case "gen":
		return b.handleGen(u)
	case "random":
		b.replyWithCard(u.Message.Chat.ID, u.Message.MessageID, rate.Random())
		return ""
	}

	return helpers.EscapeMarkdownV2(startMessage())
}

func (b *Bot) handleGen(u tgbotapi.Update) string {
	args := strings.Fields(u.Message.CommandArguments())
	if len(args) != 5 {
		return helpers.EscapeMarkdownV2(translation.Translate(
			"Неверный формат.\nИспользование:\n/gen <стоимость> <фиат> <крипта> <период> <процент>\nНапример:\n/gen 65000 USD BTC month +12.5"))
	}

	req, err := rate.Parse(args)
	if err != nil {
		log.Debugf("rejected /gen arguments %v: %v", args, err)
		return helpers.EscapeMarkdownV2(validationMessage(err))
	}

	b.replyWithCard(u.Message.Chat.ID, u.Message.MessageID, req)
	return ""
}

// HandleCallbackQuery processes an inline-button press carrying a
// pipe-delimited payload: gen|rate|FIAT|CRYPTO|timeframe|percent.
func (b *Bot) HandleCallbackQuery(q *tgbotapi.CallbackQuery) {
	if q == nil || q.Data == "" {
		return
	}
	log.Debugf("callback payload: %s", q.Data)

	parts := strings.Split(q.Data, "|")
	if len(parts) != 6 || parts[0] != "gen" {
		b.answerCallbackAlert(q.ID, translation.Translate("Некорректные данные кнопки"))
		return
	}

	req, err := rate.Parse(parts[1:])
	if err != nil {
		log.Debugf("rejected callback payload %q: %v", q.Data, err)
		b.answerCallbackAlert(q.ID, validationMessage(err))
		return
	}

	if q.Message != nil {
		b.replyWithCard(q.Message.Chat.ID, 0, req)
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		log.Error("failed to ack callback query: ", err)
	}
}

func (b *Bot) answerCallbackAlert(queryID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallbackWithAlert(queryID, text)); err != nil {
		log.Error("failed to answer callback query: ", err)
	}
}

// replyWithCard fetches the rendered card and replies with the image bytes.
// When the fetch fails the raw renderer URL goes out instead and Telegram
// fetches it on its own; the caption is the same either way.
func (b *Bot) replyWithCard(chatID int64, replyTo int, req rate.Request) {
	cardURL := chart.BuildURL(b.Config.RendererBaseURL, req)
	text := caption.Compose(req)

	var photo tgbotapi.PhotoConfig
	data, err := b.fetch(cardURL)
	if err != nil {
		log.Errorf("image fetch failed, falling back to renderer URL: %v", err)
		photo = tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(cardURL))
	} else {
		photo = tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "rate.png", Bytes: data})
	}
	photo.Caption = text
	photo.ReplyToMessageID = replyTo

	if _, err := b.api.Send(photo); err != nil {
		log.Error("error sending rate card: ", err)
	}
}

// validationMessage maps a validation error to its corrective reply.
func validationMessage(err error) string {
	var assetErr *rate.UnsupportedAssetError
	var currencyErr *rate.UnsupportedCurrencyError
	var rateErr *rate.InvalidRateError
	var timeframeErr *rate.InvalidTimeframeError
	var signErr *rate.MissingSignError
	var percentErr *rate.InvalidPercentError

	switch {
	case errors.As(err, &rateErr):
		return translation.Translate("Стоимость должна быть числом (например, 65000 или 0.1234).")
	case errors.As(err, &assetErr):
		return translation.Translate("Неподдерживаемая криптовалюта.\nДоступные: ") + strings.Join(assetErr.Supported, ", ")
	case errors.As(err, &currencyErr):
		return translation.Translate("Неподдерживаемая фиатная валюта.\nДоступные: ") + strings.Join(currencyErr.Supported, ", ")
	case errors.As(err, &timeframeErr):
		return translation.Translate("Неверный период. Используй: day, week, month, year или их русские аналоги (день, неделя, месяц, год).")
	case errors.As(err, &signErr):
		return translation.Translate("Процент должен начинаться с '+' или '-', например: +12.5 или -3.2")
	case errors.As(err, &percentErr):
		return translation.Translate("Некорректный процент. Пример: +12.5 или -3.2")
	}
	return translation.Translate("Неверный формат запроса.")
}

func startMessage() string {
	return translation.Translate(
		"Привет! Я генерирую картинки с курсом криптовалют.\n\n"+
			"Вот мои типичные команды:\n"+
			"/gen <стоимость> <валюта страны> <крипта> <период> <процент> — сгенерировать конкретный курс.\n"+
			"/random — случайный курс и новости.\n\n"+
			"Примеры:\n"+
			"/gen 65000 USD BTC month +12.5\n"+
			"/gen 1000 RUB TON day -5\n\n") +
		translation.Translate("Доступные криптовалюты: ") + strings.Join(rate.SupportedAssets(), ", ") +
		translation.Translate("\nДоступные фиатные валюты: ") + strings.Join(rate.SupportedCurrencies(), ", ") +
		translation.Translate("\nПериоды: day/week/month/year (можно писать по-русски).")
}

// inlineTitle is the one-line summary shown in the inline results popup.
func inlineTitle(req rate.Request) string {
	price, _ := strconv.ParseFloat(req.Rate, 64)
	return fmt.Sprintf("%s/%s · %s %s", req.Asset, req.Currency, helpers.FormatPriceUS(price, false), req.Currency)
}
