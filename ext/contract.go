// SPDX-License-Identifier: ice License 1.0

package ext

import (
	"github.com/goccy/go-json"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ice-blockchain/h2ext/bytesstr"
	"github.com/ice-blockchain/h2ext/method"
	"github.com/ice-blockchain/h2ext/uri"
)

// Public API.

const (
	// ProtocolWebsocket is the RFC 8441 bootstrapping token.
	ProtocolWebsocket    = "websocket"
	ProtocolWebtransport = "webtransport"
	// ProtocolConnectUDP is the RFC 9298 UDP proxying token.
	ProtocolConnectUDP = "connect-udp"
	// ProtocolConnectIP is the RFC 9484 IP proxying token.
	ProtocolConnectIP = "connect-ip"
)

type (
	// Protocol is the value of the `:protocol` pseudo-header of the Extended CONNECT Protocol.
	// See https://datatracker.ietf.org/doc/html/rfc8441#section-4.
	Protocol struct {
		value bytesstr.BytesStr
	}

	// PseudoHeadersOverride holds replacement values for the request pseudo-headers, applied when the request is encoded.
	// A nil field defers to the value derived from the request itself.
	PseudoHeadersOverride struct {
		Method    *method.Method     `json:"method,omitempty"`
		Scheme    *uri.Scheme        `json:"scheme,omitempty"`
		Authority *bytesstr.BytesStr `json:"authority,omitempty"`
		Path      *bytesstr.BytesStr `json:"path,omitempty"`
		Protocol  *Protocol          `json:"protocol,omitempty"`
	}
)

// Private API.

var (
	_ msgpack.CustomEncoder   = (*Protocol)(nil)
	_ msgpack.CustomDecoder   = (*Protocol)(nil)
	_ json.MarshalerContext   = (*Protocol)(nil)
	_ json.UnmarshalerContext = (*Protocol)(nil)
	//nolint:gochecknoglobals // Read only after init.
	wellKnownProtocols = internProtocols(ProtocolWebsocket, ProtocolWebtransport, ProtocolConnectUDP, ProtocolConnectIP)
)

type (
	config struct {
		PseudoHeadersOverride struct {
			Method    string `yaml:"method" mapstructure:"method"`
			Scheme    string `yaml:"scheme" mapstructure:"scheme"`
			Authority string `yaml:"authority" mapstructure:"authority"`
			Path      string `yaml:"path" mapstructure:"path"`
			Protocol  string `yaml:"protocol" mapstructure:"protocol"`
		} `yaml:"pseudoHeadersOverride" mapstructure:"pseudoHeadersOverride"`
	}
)
