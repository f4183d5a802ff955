package rate

import (
	"math/rand"

	"github.com/dustin/go-humanize"
)

// highTierAssets trade orders of magnitude above the meme segment and get
// the expensive price range from the generator.
var highTierAssets = map[string]struct{}{
	"BTC": {}, "ETH": {}, "BNB": {}, "TON": {}, "SOL": {}, "LTC": {},
}

// Random synthesizes a plausible rate card: asset, currency and timeframe
// sampled uniformly, price range picked by asset tier, percent change in
// (-30, 30). The percent always carries a sign, plus for anything >= 0.
func Random() Request {
	assets := SupportedAssets()
	currencies := SupportedCurrencies()

	asset := assets[rand.Intn(len(assets))]
	currency := currencies[rand.Intn(len(currencies))]
	timeframe := Timeframes[rand.Intn(len(Timeframes))]

	var price float64
	if _, ok := highTierAssets[asset]; ok {
		price = 10 + rand.Float64()*(100_000-10)
	} else {
		price = 0.0001 + rand.Float64()*(500-0.0001)
	}

	delta := -30 + rand.Float64()*60
	percent := humanize.FtoaWithDigits(delta, 2)
	if delta >= 0 {
		percent = "+" + percent
	}

	return Request{
		Asset:     asset,
		Currency:  currency,
		Rate:      humanize.FtoaWithDigits(price, 4),
		Percent:   percent,
		Timeframe: timeframe,
	}
}
