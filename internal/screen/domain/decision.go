package domain

import "encoding/json"

// Decision is the outcome of evaluating one inbound call or SMS.
// Pure value type, no external dependencies.
type Decision struct {
	Block  bool   `json:"block"`
	Reason Reason `json:"reason"`
}

// Allow returns a pass-through decision.
func Allow() Decision { return Decision{} }

// BlockFor returns a block decision carrying r.
func BlockFor(r Reason) Decision { return Decision{Block: true, Reason: r} }

// IsBlocked is a convenience accessor.
func (d Decision) IsBlocked() bool { return d.Block }

// MarshalJSON writes an allow decision's reason as null. Decoding null
// leaves Reason empty, so the default unmarshalling round-trips.
func (d Decision) MarshalJSON() ([]byte, error) {
	var reason *Reason
	if d.Reason != ReasonNone {
		reason = &d.Reason
	}
	return json.Marshal(struct {
		Block  bool    `json:"block"`
		Reason *Reason `json:"reason"`
	}{d.Block, reason})
}
