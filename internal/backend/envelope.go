package backend

import (
	"encoding/json"
	"fmt"
)

// Envelope is the wire wrapper every collaborator response uses:
// {status: success|error, data?, message?}.
type Envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// DecodeEnvelope parses a raw response body. An error status must always
// carry a non-empty message; one without is itself a protocol violation.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}

	switch env.Status {
	case StatusSuccess:
		return &env, nil
	case StatusError:
		if env.Message == "" {
			return nil, fmt.Errorf("error response without a message")
		}
		return &env, nil
	default:
		return nil, fmt.Errorf("unknown response status %q", env.Status)
	}
}

// DecodeData unmarshals the envelope payload into dst.
func (e *Envelope) DecodeData(dst any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("response has no data")
	}
	if err := json.Unmarshal(e.Data, dst); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// NewSuccess wraps a payload in a success envelope.
func NewSuccess(data any, message string) (*Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode response data: %w", err)
	}
	return &Envelope{Status: StatusSuccess, Data: raw, Message: message}, nil
}

// NewError wraps a message in an error envelope.
func NewError(message string) *Envelope {
	return &Envelope{Status: StatusError, Message: message}
}
