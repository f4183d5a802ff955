package rate

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomProducesValidRequests(t *testing.T) {
	assets := SupportedAssets()
	currencies := SupportedCurrencies()

	for i := 0; i < 200; i++ {
		req := Random()

		assert.Contains(t, assets, req.Asset)
		assert.Contains(t, currencies, req.Currency)
		assert.Contains(t, Timeframes, req.Timeframe)

		price, err := strconv.ParseFloat(req.Rate, 64)
		require.NoError(t, err)
		assert.Greater(t, price, 0.0)

		require.True(t,
			strings.HasPrefix(req.Percent, "+") || strings.HasPrefix(req.Percent, "-"),
			"percent %q must carry a sign", req.Percent)

		delta, err := strconv.ParseFloat(req.Percent, 64)
		require.NoError(t, err)
		assert.Less(t, delta, 30.0)
		assert.Greater(t, delta, -30.0)
	}
}

func TestRandomRoundTripsThroughStrictValidation(t *testing.T) {
	for i := 0; i < 50; i++ {
		generated := Random()

		parsed, err := Parse([]string{
			generated.Rate,
			generated.Currency,
			generated.Asset,
			string(generated.Timeframe),
			generated.Percent,
		})
		require.NoError(t, err)
		assert.Equal(t, generated, parsed)
	}
}

func TestRandomHighTierPriceRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		req := Random()
		price, err := strconv.ParseFloat(req.Rate, 64)
		require.NoError(t, err)

		if _, ok := highTierAssets[req.Asset]; ok {
			assert.GreaterOrEqual(t, price, 10.0)
			assert.LessOrEqual(t, price, 100_000.0)
		} else {
			assert.LessOrEqual(t, price, 500.0)
		}
	}
}
