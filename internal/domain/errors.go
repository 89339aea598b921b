package domain

import "errors"

// Sentinel errors for market data operations
var (
	// ErrNetwork indicates the market API request failed or returned a non-success status
	ErrNetwork = errors.New("market API is unreachable")

	// ErrParse indicates the response body did not match the expected coin schema
	ErrParse = errors.New("malformed market response")

	// ErrNoCachedData indicates both the network and the page cache came up empty
	ErrNoCachedData = errors.New("offline and no cached data")

	// ErrInvalidPage indicates a page number below 1
	ErrInvalidPage = errors.New("page number must be at least 1")
)
