package protocol

import "encoding/json"

// Serializer defines the contract for serializing and deserializing book events and
// order views. This allows downstream consumers to choose their preferred format
// (JSON, Protobuf, SBE, etc.) without touching the matching core.
type Serializer interface {
	// Marshal serializes a Go struct (e.g. an OrderBookLog) into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal deserializes bytes into a Go struct.
	// v must be a pointer to the target struct.
	Unmarshal(data []byte, v any) error
}

// DefaultJSONSerializer encodes with encoding/json.
type DefaultJSONSerializer struct{}

func (s *DefaultJSONSerializer) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (s *DefaultJSONSerializer) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
