package service

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// JSONCodec encodes plain Go message structs as JSON. It is registered under
// the "json" name, so Connect serves it for application/json requests.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. An empty body decodes to the zero message.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid JSON message: %w", err)
	}
	return nil
}

// WithJSON returns the option every handler and client in this package needs.
func WithJSON() connect.Option {
	return connect.WithCodec(JSONCodec{})
}
