// Package api defines the bakery RPC messages exchanged over Connect.
//
// Messages are plain Go structs encoded as JSON. Every handler and client
// built by package apiconnect installs Codec under the "json" name, so the
// wire format matches what browser clients send with Connect's JSON mode.
package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the Connect codec name used for every bakery service.
const CodecName = "json"

// Codec is a connect.Codec backed by encoding/json.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

// Unmarshal implements connect.Codec. An empty body leaves msg at its zero value.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
