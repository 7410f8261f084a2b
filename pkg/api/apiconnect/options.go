// Package apiconnect wires the bakery services to Connect handlers and clients.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/bakery/pkg/api"
)

// handlerOptions prepends the JSON codec so callers' options can still override it.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}
