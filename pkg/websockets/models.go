package websockets

import "github.com/chris/allowance-ledger/pkg/models"

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeBalanceUpdate is sent after every balance change.
	MessageTypeBalanceUpdate MessageType = "balanceUpdate"
)

// Message represents a generic WebSocket message. UserID selects the connections it is sent to
// and is not part of the wire format.
type Message struct {
	UserID  string      `json:"-"`
	Type    MessageType `json:"type"`
	Payload any         `json:"payload"`
}

// BalanceUpdatePayload is the payload for a balanceUpdate message.
type BalanceUpdatePayload struct {
	UserID     string           `json:"userId"`
	LogID      string           `json:"logId,omitempty"`
	Source     models.LogSource `json:"source,omitempty"`
	Change     models.Money     `json:"change"`
	NewBalance models.Money     `json:"newBalance"`
}

// NewBalanceUpdate builds the balanceUpdate message for a balance log entry.
func NewBalanceUpdate(entry *models.BalanceLog) Message {
	return Message{
		UserID: entry.UserID,
		Type:   MessageTypeBalanceUpdate,
		Payload: BalanceUpdatePayload{
			UserID:     entry.UserID,
			LogID:      entry.LogID,
			Source:     entry.Source,
			Change:     entry.Amount,
			NewBalance: entry.BalanceAfter,
		},
	}
}
