package amqp

import (
	"encoding/json"
	"time"
)

// Change operations carried on the ledger queue.
const (
	OpUpsert = "upsert"
	OpRemove = "remove"
	OpApply  = "apply"
)

// LedgerChangeMessage tells the backup worker that a month changed.
// It carries only identifiers; the worker reloads the collection from the
// database, so a stale or replayed message can never write stale balances.
type LedgerChangeMessage struct {
	Op            string    `json:"op"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Year          int       `json:"year"`
	Month         int       `json:"month"` // 1-12
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerChangeMessage creates a change message stamped with the current time.
func NewLedgerChangeMessage(op, transactionID string, year, month int) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		Op:            op,
		TransactionID: transactionID,
		Year:          year,
		Month:         month,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerChangeMessageFromJSON creates a message from JSON bytes
func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
