package types

// Event is the broadcastable form of a ledger state change. Attributes carry
// stringified amounts so indexers never need the pool's numeric types.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
