package core

import (
	"github.com/google/uuid"
)

// NewTransactionID returns a UUIDv7: time-ordered and unique even when
// several transactions are created within the same millisecond.
func NewTransactionID() TransactionID {
	id, err := uuid.NewV7()
	if err != nil {
		return TransactionID(uuid.NewString())
	}
	return TransactionID(id.String())
}
