package caption

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratecard-telegram-bot/internal/rate"
)

func TestToneOf(t *testing.T) {
	assert.Equal(t, Growth, ToneOf("+12.5"))
	assert.Equal(t, Growth, ToneOf("+0"))
	assert.Equal(t, Decline, ToneOf("-3.2"))
	assert.Equal(t, Flat, ToneOf("0"))
	assert.Equal(t, Flat, ToneOf("12.5"))
}

func TestComposeStructure(t *testing.T) {
	req := rate.Request{
		Asset:     "BTC",
		Currency:  "USD",
		Rate:      "65000",
		Percent:   "+12.5",
		Timeframe: rate.Month,
	}

	lines := strings.Split(Compose(req), "\n")
	require.Len(t, lines, 8)

	assert.Equal(t, "Пара: BTC/USD", lines[0])
	assert.Equal(t, "Текущая цена: 65000 USD", lines[1])
	assert.Equal(t, "Период: месяц", lines[2])
	assert.Equal(t, "Динамика за период: +12.5%", lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, "Новости:", lines[5])
	assert.True(t, strings.HasPrefix(lines[6], "- "))
	assert.True(t, strings.HasPrefix(lines[7], "- "))
}

func TestComposeGrowthNewsDrawnWithoutReplacement(t *testing.T) {
	req := rate.Request{
		Asset:     "BTC",
		Currency:  "USD",
		Rate:      "65000",
		Percent:   "+12.5",
		Timeframe: rate.Month,
	}

	expected := []string{
		"BTC: цена уверенно растёт в этом месяце, участники рынка наращивают позиции.",
		"Интерес к BTC усиливается, инвесторы фиксируют рост около 12.5% за период.",
		"Аналитики отмечают положительный новостной фон и приток ликвидности в BTC.",
	}

	for i := 0; i < 50; i++ {
		lines := strings.Split(Compose(req), "\n")
		first := strings.TrimPrefix(lines[6], "- ")
		second := strings.TrimPrefix(lines[7], "- ")

		assert.Contains(t, expected, first)
		assert.Contains(t, expected, second)
		assert.NotEqual(t, first, second)
	}
}

func TestComposeDeclineTone(t *testing.T) {
	req := rate.Request{
		Asset:     "TON",
		Currency:  "RUB",
		Rate:      "1000",
		Percent:   "-5",
		Timeframe: rate.Day,
	}

	expected := []string{
		"TON: наблюдается снижение сегодня, часть трейдеров фиксирует убытки.",
		"Продавцы доминируют, TON теряет около 5% за период.",
		"Аналитики предупреждают о повышенной волатильности и возможном продолжении коррекции по TON.",
	}

	lines := strings.Split(Compose(req), "\n")
	assert.Equal(t, "Динамика за период: -5%", lines[3])
	assert.Contains(t, expected, strings.TrimPrefix(lines[6], "- "))
	assert.Contains(t, expected, strings.TrimPrefix(lines[7], "- "))
}

func TestComposeUnsignedPercentReadsFlat(t *testing.T) {
	req := rate.Request{
		Asset:     "PEPE",
		Currency:  "EUR",
		Rate:      "0.001",
		Percent:   "0",
		Timeframe: rate.Week,
	}

	expected := []string{
		"PEPE: значимых движений на этой неделе не зафиксировано, рынок остаётся в боковике.",
		"Торги по PEPE проходят спокойно, участники ждут новых драйверов.",
		"Аналитики отмечают нейтральный баланс спроса и предложения по PEPE.",
	}

	lines := strings.Split(Compose(req), "\n")
	assert.Equal(t, "Динамика за период: 0%", lines[3])
	assert.Contains(t, expected, strings.TrimPrefix(lines[6], "- "))
	assert.Contains(t, expected, strings.TrimPrefix(lines[7], "- "))
}

func TestComposeUnknownTimeframeFallsBack(t *testing.T) {
	req := rate.Request{
		Asset:     "BTC",
		Currency:  "USD",
		Rate:      "1",
		Percent:   "+1",
		Timeframe: rate.Timeframe("quarter"),
	}

	lines := strings.Split(Compose(req), "\n")
	assert.Equal(t, "Период: quarter", lines[2])
}
