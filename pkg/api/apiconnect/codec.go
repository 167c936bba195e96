// Package apiconnect wires the tripjapan.v1 messages to Connect handlers
// and clients.
//
// Messages are plain Go structs, so every handler and client is built with
// Codec, which replaces Connect's protobuf-backed "json" codec.
package apiconnect

import (
	"encoding/json"
	"errors"
	"strings"

	"connectrpc.com/connect"
)

// PackageName is the protobuf-style package of every service.
const PackageName = "tripjapan.v1"

// Codec marshals messages as JSON under the name "json", so the Connect
// protocol sees the usual application/json content type.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func trimBase(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

func errUnimplemented(procedure string) error {
	return errors.New(procedure + " is not implemented")
}
