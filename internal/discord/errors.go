package discord

import "fmt"

// ExchangeError is returned when the token endpoint rejects an
// authorization code. The code is consumed by Discord on any exchange
// attempt, so callers must not retry with the same code.
type ExchangeError struct {
	StatusCode      int
	ProviderMessage string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed with status %d: %s", e.StatusCode, e.ProviderMessage)
}

// FetchError is returned when a bearer-authenticated profile call fails.
type FetchError struct {
	StatusCode      int
	ProviderMessage string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("profile fetch failed with status %d: %s", e.StatusCode, e.ProviderMessage)
}
