package models

// SendOutcome records the result of one notification attempt against one
// configured endpoint. Outcomes are logged and aggregated, never persisted.
type SendOutcome struct {
	// Channel is the channel type name: webhook, wechat, bark.
	Channel string `json:"channel"`
	// Endpoint is a display-safe reference to the endpoint (host or
	// truncated form), never the raw credential-bearing value.
	Endpoint string `json:"endpoint"`
	OK       bool   `json:"ok"`
	// Detail carries the response status and a body snippet on success,
	// or the error text on failure.
	Detail string `json:"detail,omitempty"`
}

// CountOutcomes tallies delivered and failed outcomes for summary logging.
func CountOutcomes(outcomes []SendOutcome) (ok, failed int) {
	for _, o := range outcomes {
		if o.OK {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
