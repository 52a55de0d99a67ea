package mercadopago

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingAccessToken is returned before any network call when the client
// was built without a credential.
var ErrMissingAccessToken = errors.New("missing mercado pago access token")

// APIError is a non-2xx answer from Mercado Pago. Body is the raw response
// and Sent the exact payload that triggered it, both kept for diagnostics.
type APIError struct {
	StatusCode int
	Body       json.RawMessage
	Sent       any
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mercado pago error (status: %d): %s", e.StatusCode, string(e.Body))
}

// Details decodes the response body, falling back to the raw text when the
// provider did not answer with JSON.
func (e *APIError) Details() any {
	var details any
	if err := json.Unmarshal(e.Body, &details); err != nil {
		return string(e.Body)
	}
	return details
}

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
