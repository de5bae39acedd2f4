package types

import (
	"fmt"

	"github.com/google/uuid"
)

// ObjectID identifies a component or pipeline instance for log
// correlation across the reader/decoder/renderer threads.
type ObjectID uuid.UUID

func NewObjectID() ObjectID {
	return ObjectID(uuid.New())
}

func (id ObjectID) String() string {
	return uuid.UUID(id).String()
}

// GetObjectIDer is implemented by anything that wants a stable identity
// in logs, independent of its Go pointer or String() representation.
type GetObjectIDer interface {
	GetObjectID() ObjectID
}

func (id ObjectID) GoString() string {
	return fmt.Sprintf("ObjectID(%s)", uuid.UUID(id).String())
}
