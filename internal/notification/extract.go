// Package notification resolves the payment id out of a Mercado Pago
// webhook delivery. The provider sends several shapes over time (query
// parameters, v1 JSON bodies, IPN resource URLs), so resolution is an
// ordered chain of independent extractors combined by first success.
package notification

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Extractor tries one known location of the payment id and returns "" when
// it does not match.
type Extractor struct {
	Name string
	Fn   func(query url.Values, body []byte) string
}

// Extractors in precedence order: query id, query data.id, body data.id,
// body id, resource URL, raw text scan.
var Extractors = []Extractor{
	{"query_id", fromQueryID},
	{"query_data_id", fromQueryDataID},
	{"body_data_id", fromBodyDataID},
	{"body_id", fromBodyID},
	{"resource_url", fromResourceURL},
	{"raw_scan", fromRawScan},
}

// PaymentID runs the extractor chain and returns the first match, or ""
// when no shape is recognized.
func PaymentID(query url.Values, body []byte) string {
	for _, e := range Extractors {
		if id := e.Fn(query, body); id != "" {
			return id
		}
	}
	return ""
}

func fromQueryID(query url.Values, _ []byte) string {
	return query.Get("id")
}

func fromQueryDataID(query url.Values, _ []byte) string {
	return query.Get("data.id")
}

func fromBodyDataID(_ url.Values, body []byte) string {
	var payload struct {
		Data struct {
			ID any `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return stringifyID(payload.Data.ID)
}

func fromBodyID(_ url.Values, body []byte) string {
	var payload struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return stringifyID(payload.ID)
}

// fromResourceURL handles legacy IPN bodies whose resource field is a URL
// like https://api.mercadopago.com/v1/payments/123?query.
func fromResourceURL(_ url.Values, body []byte) string {
	var payload struct {
		Resource string `json:"resource"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	_, after, found := strings.Cut(payload.Resource, "/payments/")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "?")
	id, _, _ = strings.Cut(id, "/")
	return id
}

var rawIDPattern = regexp.MustCompile(`"id"\s*:\s*"?(\d+)"?`)

// fromRawScan is the last resort for bodies that are not valid JSON.
func fromRawScan(_ url.Values, body []byte) string {
	m := rawIDPattern.FindSubmatch(body)
	if m == nil {
		return ""
	}
	return string(m[1])
}

func stringifyID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}
