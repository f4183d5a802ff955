// Package caption renders the user-visible text for a rate card: a fixed
// four-line header followed by a short randomized news block.
package caption

import (
	"fmt"
	"math/rand"
	"strings"

	"ratecard-telegram-bot/internal/rate"
)

// Tone is the directional sentiment derived from the percent's sign.
type Tone int

const (
	Flat Tone = iota
	Growth
	Decline
)

// ToneOf reads the leading sign character. Validated requests always carry
// a sign, so Flat only shows up for hand-built requests with an unsigned
// percent. That is not an error, it just reads as a quiet market.
func ToneOf(percent string) Tone {
	switch {
	case strings.HasPrefix(percent, "+"):
		return Growth
	case strings.HasPrefix(percent, "-"):
		return Decline
	default:
		return Flat
	}
}

// periodPhrases are the accusative forms used in the header's period line.
var periodPhrases = map[rate.Timeframe]string{
	rate.Day:   "день",
	rate.Week:  "неделю",
	rate.Month: "месяц",
	rate.Year:  "год",
}

// periodContexts are the adverbial forms woven into news sentences.
var periodContexts = map[rate.Timeframe]string{
	rate.Day:   "сегодня",
	rate.Week:  "на этой неделе",
	rate.Month: "в этом месяце",
	rate.Year:  "в этом году",
}

type template func(asset, period, value string) string

var newsTemplates = map[Tone][]template{
	Growth: {
		func(asset, period, _ string) string {
			return fmt.Sprintf("%s: цена уверенно растёт %s, участники рынка наращивают позиции.", asset, period)
		},
		func(asset, _, value string) string {
			return fmt.Sprintf("Интерес к %s усиливается, инвесторы фиксируют рост около %s%% за период.", asset, value)
		},
		func(asset, _, _ string) string {
			return fmt.Sprintf("Аналитики отмечают положительный новостной фон и приток ликвидности в %s.", asset)
		},
	},
	Decline: {
		func(asset, period, _ string) string {
			return fmt.Sprintf("%s: наблюдается снижение %s, часть трейдеров фиксирует убытки.", asset, period)
		},
		func(asset, _, value string) string {
			return fmt.Sprintf("Продавцы доминируют, %s теряет около %s%% за период.", asset, value)
		},
		func(asset, _, _ string) string {
			return fmt.Sprintf("Аналитики предупреждают о повышенной волатильности и возможном продолжении коррекции по %s.", asset)
		},
	},
	Flat: {
		func(asset, period, _ string) string {
			return fmt.Sprintf("%s: значимых движений %s не зафиксировано, рынок остаётся в боковике.", asset, period)
		},
		func(asset, _, _ string) string {
			return fmt.Sprintf("Торги по %s проходят спокойно, участники ждут новых драйверов.", asset)
		},
		func(asset, _, _ string) string {
			return fmt.Sprintf("Аналитики отмечают нейтральный баланс спроса и предложения по %s.", asset)
		},
	},
}

// Compose renders the full caption: pair, price, period and dynamics lines,
// a blank line, then the news block.
func Compose(req rate.Request) string {
	tone := ToneOf(req.Percent)
	value := strings.TrimLeft(req.Percent, "+-")

	var dynamics string
	switch tone {
	case Growth:
		dynamics = fmt.Sprintf("Динамика за период: +%s%%", value)
	case Decline:
		dynamics = fmt.Sprintf("Динамика за период: -%s%%", value)
	default:
		dynamics = fmt.Sprintf("Динамика за период: %s%%", req.Percent)
	}

	return fmt.Sprintf(
		"Пара: %s/%s\nТекущая цена: %s %s\nПериод: %s\n%s\n\n%s",
		req.Asset, req.Currency,
		req.Rate, req.Currency,
		periodPhrase(req.Timeframe),
		dynamics,
		newsBlock(req.Asset, req.Timeframe, value, tone),
	)
}

// newsBlock draws two distinct sentences from the tone's template pool, in
// draw order. Distinctness and uniformity come from shuffling the indices.
func newsBlock(asset string, timeframe rate.Timeframe, value string, tone Tone) string {
	pool := newsTemplates[tone]
	period := periodContext(timeframe)

	count := 2
	if len(pool) < 2 {
		count = 1
	}

	lines := make([]string, 0, count)
	for _, i := range rand.Perm(len(pool))[:count] {
		lines = append(lines, "- "+pool[i](asset, period, value))
	}

	return "Новости:\n" + strings.Join(lines, "\n")
}

func periodPhrase(timeframe rate.Timeframe) string {
	if phrase, ok := periodPhrases[timeframe]; ok {
		return phrase
	}
	return string(timeframe)
}

func periodContext(timeframe rate.Timeframe) string {
	if context, ok := periodContexts[timeframe]; ok {
		return context
	}
	return "за период"
}
