package common

import "errors"

var (
	ErrAuthRequired          = errors.New("personal access token is required")
	ErrInvalidInput          = errors.New("invalid input")
	ErrTruncatedListing      = errors.New("repository listing is truncated")
	ErrNoIconsFound          = errors.New("no .svg icons found")
	ErrInvalidMetadata       = errors.New("icons metadata is not valid JSON")
	ErrInvalidSVG            = errors.New("fetched file is not a valid SVG")
	ErrVariantMissing        = errors.New("variant not found")
	ErrProviderNotConfigured = errors.New("provider is not configured")
	ErrEmptyPayload          = errors.New("empty payload")
)
