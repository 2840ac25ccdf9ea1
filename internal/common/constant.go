// Package common contains shared constants and sentinel errors used across
// Daybook components.
package common

const (
	// DateLayout is the canonical format for entry dates and timeframe bounds.
	DateLayout = "2006-01-02"

	// PersistentEndDate is the far-future end bound used for sections that
	// never roll over to a new timeframe.
	PersistentEndDate = "9999-12-31"

	// AccessTokenHeaderName is the HTTP header used to carry the access token
	// on outbound requests.
	AccessTokenHeaderName = "Authorization"

	// DeviceIDHeaderName identifies the originating device on cloud requests.
	DeviceIDHeaderName = "X-Device-Id"
)
