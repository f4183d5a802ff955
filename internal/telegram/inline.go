package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"ratecard-telegram-bot/internal/caption"
	"ratecard-telegram-bot/internal/chart"
	"ratecard-telegram-bot/internal/rate"
)

// HandleInlineQuery serves the cacheable inline surface. The query text is
// either a "random"/"rand" keyword or the five-token form, optionally
// prefixed with /gen. Every failure answers with an empty result set: an
// inline search must never show an error to the person typing.
func (b *Bot) HandleInlineQuery(q *tgbotapi.InlineQuery) {
	if q == nil {
		return
	}

	text := strings.TrimSpace(q.Query)
	if text == "" || b.Config.StorageChatID == 0 {
		b.answerInline(q.ID, nil)
		return
	}

	var req rate.Request
	var resultID string

	lowered := strings.ToLower(text)
	if strings.HasPrefix(lowered, "random") || strings.HasPrefix(lowered, "rand") {
		req = rate.Random()
		resultID = "rand-1"
	} else {
		tokens := strings.Fields(text)
		if first := strings.ToLower(tokens[0]); strings.HasPrefix(first, "/gen") || first == "gen" {
			tokens = tokens[1:]
		}
		if len(tokens) < 5 {
			b.answerInline(q.ID, nil)
			return
		}

		var err error
		req, err = rate.ParseFreeText(tokens[:5])
		if err != nil {
			log.Debugf("rejected inline query %q: %v", text, err)
			b.answerInline(q.ID, nil)
			return
		}
		resultID = "rate-1"
	}

	cardURL := chart.BuildURL(b.Config.RendererBaseURL, req)
	cardCaption := caption.Compose(req)

	data, err := b.fetch(cardURL)
	if err != nil {
		log.Errorf("inline image fetch failed: %v", err)
		b.answerInline(q.ID, nil)
		return
	}

	fileID, err := b.publisher.Publish(Artifact{Image: data, Caption: cardCaption, Request: req})
	if err != nil {
		log.Errorf("inline publish failed: %v", err)
		b.answerInline(q.ID, nil)
		return
	}

	result := tgbotapi.NewInlineQueryResultCachedPhoto(resultID, fileID)
	result.Title = inlineTitle(req)
	result.Caption = cardCaption

	b.answerInline(q.ID, []interface{}{result})
}

// answerInline replies to an inline query with zero caching and the result
// scoped to the requester, so every keystroke re-evaluates.
func (b *Bot) answerInline(queryID string, results []interface{}) {
	if results == nil {
		results = []interface{}{}
	}

	_, err := b.api.Request(tgbotapi.InlineConfig{
		InlineQueryID: queryID,
		Results:       results,
		CacheTime:     0,
		IsPersonal:    true,
	})
	if err != nil {
		log.Error("error answering inline query: ", err)
	}
}
