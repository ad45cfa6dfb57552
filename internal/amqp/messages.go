package amqp

import (
	"encoding/json"
	"time"
)

// TransactionCreatedMessage notifies the worker that a transaction was
// persisted. It carries only the id; the worker re-reads the store so the
// digest always reflects current state.
type TransactionCreatedMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionCreatedMessage(id string) *TransactionCreatedMessage {
	return &TransactionCreatedMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *TransactionCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionCreatedMessageFromJSON(data []byte) (*TransactionCreatedMessage, error) {
	var msg TransactionCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
