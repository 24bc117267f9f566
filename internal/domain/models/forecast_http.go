package models

// Requests for forecast HTTP endpoints. Defined in domain for consistency and reuse.

// ForecastRequest selects the instrument to fetch and transform. The symbol
// set is configured, so membership is checked in the handler rather than with
// a static oneof tag.
type ForecastRequest struct {
	Symbol  string `query:"symbol" json:"symbol" validate:"required"`
	Refresh bool   `query:"refresh" json:"refresh" default:"false"`
}
