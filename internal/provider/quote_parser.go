package provider

import (
	"errors"

	"coinwire/internal/domain"

	"github.com/tidwall/gjson"
)

var errMalformedEnvelope = errors.New("response is not a JSON object")

// envelopeError reports the provider's status.error_message, if any.
// Any non-null value counts as a provider-side lookup failure.
func envelopeError(body []byte) (string, bool) {
	msg := gjson.GetBytes(body, "status.error_message")
	if !msg.Exists() || msg.Type == gjson.Null {
		return "", false
	}
	return msg.String(), true
}

// ParseQuote extracts the quote for symbol from a quotes/latest envelope and
// applies every field default. It returns (nil, nil) when the provider has no
// data for symbol, and an error only when body is not a JSON object.
func ParseQuote(body []byte, symbol string) (*domain.QuoteRecord, error) {
	if !gjson.ValidBytes(body) {
		return nil, errMalformedEnvelope
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, errMalformedEnvelope
	}

	if _, failed := envelopeError(body); failed {
		return nil, nil
	}

	entry, ok := lookupEntry(root.Get("data"), symbol)
	if !ok {
		return nil, nil
	}

	usd := entry.Get("quote.USD")
	q := &domain.QuoteRecord{
		Name:             stringOr(entry.Get("name"), domain.UnknownName),
		Symbol:           stringOr(entry.Get("symbol"), symbol),
		Slug:             stringOr(entry.Get("slug"), domain.UnknownSlug),
		Price:            numberOr(usd.Get("price")),
		MarketCap:        numberOr(usd.Get("market_cap")),
		Volume24h:        numberOr(usd.Get("volume_24h")),
		PercentChange24h: numberOr(usd.Get("percent_change_24h")),
		PercentChange7d:  numberOr(usd.Get("percent_change_7d")),
		LastUpdated: stringOr(usd.Get("last_updated"),
			stringOr(entry.Get("last_updated"), domain.UnknownLastUpdated)),
	}
	return q, nil
}

// lookupEntry finds data[symbol] without path syntax, so symbols containing
// gjson metacharacters are matched literally. v2-style array entries resolve
// to their first element.
func lookupEntry(data gjson.Result, symbol string) (gjson.Result, bool) {
	if !data.IsObject() {
		return gjson.Result{}, false
	}

	var entry gjson.Result
	found := false
	data.ForEach(func(key, value gjson.Result) bool {
		if key.String() != symbol {
			return true
		}
		entry, found = value, true
		return false
	})
	if !found {
		return gjson.Result{}, false
	}

	if entry.IsArray() {
		first := entry.Get("0")
		if !first.IsObject() {
			return gjson.Result{}, false
		}
		return first, true
	}
	if !entry.IsObject() {
		return gjson.Result{}, false
	}
	return entry, true
}

func stringOr(r gjson.Result, fallback string) string {
	if r.Type != gjson.String {
		return fallback
	}
	return r.Str
}

func numberOr(r gjson.Result) float64 {
	if r.Type != gjson.Number {
		return 0
	}
	return r.Num
}
