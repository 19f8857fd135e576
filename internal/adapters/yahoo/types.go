package yahoo

import "encoding/json"

// DTOs del chart API v8 de Yahoo Finance. Solo los campos que usamos.

type chartResponse struct {
	Chart struct {
		Result []chartResult   `json:"result"`
		Error  json.RawMessage `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			// Los cierres pueden venir como null en días sin dato:
			// de ahí el slice de punteros.
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}
