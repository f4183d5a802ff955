package rate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// InvalidRateError reports a rate token that is not a finite number.
type InvalidRateError struct {
	Raw string
}

func (e *InvalidRateError) Error() string {
	return fmt.Sprintf("rate %q is not a finite number", e.Raw)
}

// UnsupportedAssetError reports a crypto symbol outside the whitelist. The
// whitelist rides along, sorted, so callers can render a help message.
type UnsupportedAssetError struct {
	Raw       string
	Supported []string
}

func (e *UnsupportedAssetError) Error() string {
	return fmt.Sprintf("unsupported crypto asset %q, supported: %s", e.Raw, strings.Join(e.Supported, ", "))
}

// UnsupportedCurrencyError reports a fiat symbol outside the whitelist.
type UnsupportedCurrencyError struct {
	Raw       string
	Supported []string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported fiat currency %q, supported: %s", e.Raw, strings.Join(e.Supported, ", "))
}

// InvalidTimeframeError reports a token matching no timeframe alias.
type InvalidTimeframeError struct {
	Raw string
}

func (e *InvalidTimeframeError) Error() string {
	return fmt.Sprintf("unknown timeframe %q", e.Raw)
}

// MissingSignError reports a percent token without an explicit + or - prefix.
type MissingSignError struct {
	Raw string
}

func (e *MissingSignError) Error() string {
	return fmt.Sprintf("percent %q must start with + or -", e.Raw)
}

// InvalidPercentError reports a percent token that, after sign and comma
// normalization, still is not a finite number.
type InvalidPercentError struct {
	Raw string
}

func (e *InvalidPercentError) Error() string {
	return fmt.Sprintf("percent %q is not a finite number", e.Raw)
}

// Parse validates the five positional tokens of the structured command form:
// rate, fiat currency, crypto asset, timeframe, signed percent. Every token
// must validate, an unknown timeframe or an unsigned percent is an error.
func Parse(tokens []string) (Request, error) {
	return parse(tokens, false)
}

// ParseFreeText validates tokens coming from an inline search query. It is
// deliberately more forgiving than Parse: an unrecognized timeframe falls
// back to Day and an unsigned percent gets a leading plus.
func ParseFreeText(tokens []string) (Request, error) {
	return parse(tokens, true)
}

func parse(tokens []string, lenient bool) (Request, error) {
	if len(tokens) != 5 {
		return Request{}, errors.Errorf("expected 5 tokens, got %d", len(tokens))
	}

	rawRate, rawFiat, rawCrypto, rawTimeframe, rawPercent := tokens[0], tokens[1], tokens[2], tokens[3], tokens[4]

	if !isFinite(rawRate) {
		return Request{}, &InvalidRateError{Raw: rawRate}
	}

	asset := strings.ToUpper(rawCrypto)
	if _, ok := cryptoList[asset]; !ok {
		return Request{}, &UnsupportedAssetError{Raw: rawCrypto, Supported: SupportedAssets()}
	}

	currency := strings.ToUpper(rawFiat)
	if _, ok := fiatList[currency]; !ok {
		return Request{}, &UnsupportedCurrencyError{Raw: rawFiat, Supported: SupportedCurrencies()}
	}

	timeframe, ok := NormalizeTimeframe(rawTimeframe)
	if !ok {
		if !lenient {
			return Request{}, &InvalidTimeframeError{Raw: rawTimeframe}
		}
		timeframe = Day
	}

	percent, err := NormalizePercent(rawPercent, lenient)
	if err != nil {
		return Request{}, err
	}

	return Request{
		Asset:     asset,
		Currency:  currency,
		Rate:      rawRate,
		Percent:   percent,
		Timeframe: timeframe,
	}, nil
}

// NormalizeTimeframe resolves a raw token against the alias table,
// case-insensitively.
func NormalizeTimeframe(raw string) (Timeframe, bool) {
	lowered := strings.ToLower(raw)
	for key, aliases := range timeframeAliases {
		for _, alias := range aliases {
			if lowered == alias {
				return key, true
			}
		}
	}
	return "", false
}

// NormalizePercent converts a comma decimal separator to a dot and applies
// the sign policy: strict mode demands an explicit sign, lenient mode
// prepends a plus when the sign is absent. Normalizing an already signed,
// dot-decimal token returns it unchanged.
func NormalizePercent(raw string, lenient bool) (string, error) {
	percent := strings.ReplaceAll(raw, ",", ".")
	if !strings.HasPrefix(percent, "+") && !strings.HasPrefix(percent, "-") {
		if !lenient {
			return "", &MissingSignError{Raw: raw}
		}
		percent = "+" + percent
	}
	if !isFinite(percent) {
		return "", &InvalidPercentError{Raw: raw}
	}
	return percent, nil
}

func isFinite(s string) bool {
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(v, 0) && !math.IsNaN(v)
}
