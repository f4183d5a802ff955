package rate

import "sort"

// Timeframe is a canonical reporting window.
type Timeframe string

const (
	Day   Timeframe = "day"
	Week  Timeframe = "week"
	Month Timeframe = "month"
	Year  Timeframe = "year"
)

// Timeframes lists the canonical windows in display order.
var Timeframes = []Timeframe{Day, Week, Month, Year}

// timeframeAliases maps every accepted spelling, English and Russian, to its
// canonical window.
var timeframeAliases = map[Timeframe][]string{
	Day:   {"day", "d", "день", "д"},
	Week:  {"week", "w", "неделя", "нед", "н"},
	Month: {"month", "m", "месяц", "мес", "м"},
	Year:  {"year", "y", "год", "г"},
}

var cryptoList = map[string]struct{}{
	"USDT": {}, "TON": {}, "SOL": {}, "TRX": {}, "GRAM": {}, "BTC": {},
	"ETH": {}, "DOGE": {}, "LTC": {}, "NOT": {}, "TRUMP": {}, "MELANIA": {},
	"PEPE": {}, "WIF": {}, "BONK": {}, "MAJOR": {}, "MY": {}, "DOGS": {},
	"MEMHASH": {}, "BNB": {}, "HMSTR": {}, "CATI": {}, "USDC": {},
}

var fiatList = map[string]struct{}{
	"RUB": {}, "USD": {}, "EUR": {}, "BYN": {}, "UAH": {}, "GBP": {},
	"CNY": {}, "KZT": {}, "UZS": {}, "GEL": {}, "TRY": {}, "AMD": {},
	"THB": {}, "INR": {}, "BRL": {}, "IDR": {}, "AZN": {}, "AED": {},
	"PLN": {}, "ILS": {}, "KGS": {}, "TJS": {}, "LKR": {},
}

// Request is a fully validated rate card. Instances produced by Parse,
// ParseFreeText and Random always carry five valid fields and a signed
// percent; code constructing one by hand is on its own.
type Request struct {
	Asset     string
	Currency  string
	Rate      string
	Percent   string
	Timeframe Timeframe
}

// SupportedAssets returns the crypto whitelist, sorted.
func SupportedAssets() []string {
	return sortedKeys(cryptoList)
}

// SupportedCurrencies returns the fiat whitelist, sorted.
func SupportedCurrencies() []string {
	return sortedKeys(fiatList)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
