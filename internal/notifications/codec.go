package notifications

import (
	"encoding/json"
	"fmt"
)

func Encode(n Notification) ([]byte, error) {
	if !n.Kind.IsValid() {
		return nil, ErrInvalidKind
	}

	b, err := json.Marshal(n)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return b, nil
}

// Decode unmarshals a queued message back into a Notification.
func Decode(raw []byte) (Notification, error) {
	if len(raw) == 0 {
		return Notification{}, ErrInvalidPayload
	}

	var n Notification

	if err := json.Unmarshal(raw, &n); err != nil {
		return Notification{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if !n.Kind.IsValid() {
		return Notification{}, ErrInvalidKind
	}

	return n, nil
}
