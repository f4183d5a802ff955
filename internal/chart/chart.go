// Package chart talks to the external rate-card renderer.
package chart

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"ratecard-telegram-bot/internal/rate"
)

// fetchTimeout bounds the single GET against the renderer.
const fetchTimeout = 10 * time.Second

var client = &http.Client{Timeout: fetchTimeout}

// BuildURL assembles the renderer request for a validated rate card.
func BuildURL(base string, req rate.Request) string {
	params := url.Values{}
	params.Set("base", req.Asset)
	params.Set("quote", req.Currency)
	params.Set("rate", req.Rate)
	params.Set("percent", req.Percent)
	params.Set("timeframe", string(req.Timeframe))
	return base + "?" + params.Encode()
}

// Fetch downloads the rendered image. A transport failure or a non-2xx
// status comes back as an error. There are no retries: the caller decides
// whether to fall back to the raw URL or give up.
func Fetch(rawURL string) ([]byte, error) {
	resp, err := client.Get(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch rate card image")
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Errorf("renderer returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not read rate card image body")
	}
	return data, nil
}
