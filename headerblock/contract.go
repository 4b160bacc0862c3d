// SPDX-License-Identifier: ice License 1.0

package headerblock

import (
	"bytes"
	"io"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/net/http2/hpack"

	"github.com/ice-blockchain/h2ext/bytesstr"
	"github.com/ice-blockchain/h2ext/ext"
	"github.com/ice-blockchain/h2ext/method"
	"github.com/ice-blockchain/h2ext/uri"
)

// Public API.

const (
	PseudoHeaderMethod    = ":method"
	PseudoHeaderScheme    = ":scheme"
	PseudoHeaderAuthority = ":authority"
	PseudoHeaderPath      = ":path"
	PseudoHeaderProtocol  = ":protocol"
)

var (
	ErrMalformedHeaderBlock     = errors.New("malformed header block")
	ErrDuplicatePseudoHeader    = errors.New("duplicate pseudo-header")
	ErrUnknownPseudoHeader      = errors.New("unknown pseudo-header")
	ErrPseudoHeaderAfterRegular = errors.New("pseudo-header after regular header")
	ErrMissingPseudoHeader      = errors.New("missing mandatory pseudo-header")
	ErrProtocolRequiresConnect  = errors.New(":protocol requires the CONNECT method")
	ErrHeaderListTooLarge       = errors.New("header list too large")
	ErrInvalidHeaderField       = errors.New("invalid header field")
	ErrInvalidRequest           = errors.New("invalid request")
	ErrUnexpectedFrame          = errors.New("unexpected frame")
)

type (
	// PseudoHeaders are the values that end up on the wire once the request's own values and the override are merged.
	PseudoHeaders struct {
		Protocol  *ext.Protocol
		Method    method.Method
		Scheme    uri.Scheme
		Authority bytesstr.BytesStr
		Path      bytesstr.BytesStr
	}
	// RequestHead is a decoded request header block. Pseudo holds exactly the pseudo-headers present on the wire.
	RequestHead struct {
		Pseudo    *ext.PseudoHeadersOverride
		Header    http.Header
		StreamID  uint32
		EndStream bool
	}
	// Codec encodes and decodes request header blocks for a single connection; HPACK state is per connection.
	Codec interface {
		EncodeRequest(req *http.Request, override *ext.PseudoHeadersOverride) ([]byte, error)
		DecodeRequest(block []byte) (*RequestHead, error)
		// WriteRequestHeaders writes a HEADERS frame, followed by CONTINUATION frames when the block exceeds the frame size.
		WriteRequestHeaders(w io.Writer, streamID uint32, endStream bool, req *http.Request, override *ext.PseudoHeadersOverride) error
		ReadRequestHeaders(r io.Reader) (*RequestHead, error)
		// EncodeRequestQPACK and DecodeRequestQPACK are the HTTP/3 equivalents; they only use the static table.
		EncodeRequestQPACK(req *http.Request, override *ext.PseudoHeadersOverride) ([]byte, error)
		DecodeRequestQPACK(block []byte) (*RequestHead, error)
	}
)

// Private API.

const (
	defaultMaxDynamicTableSize = 4096
	defaultMaxFrameSize        = 16384
	headerFieldOverhead        = 32
)

type (
	codec struct {
		cfg    *config
		enc    *hpack.Encoder
		dec    *hpack.Decoder
		encBuf bytes.Buffer
		encMx  sync.Mutex
		decMx  sync.Mutex
	}
	headerField struct {
		name  string
		value string
	}
	config struct {
		HeaderBlock struct {
			MaxDynamicTableSize   uint32 `yaml:"maxDynamicTableSize" mapstructure:"maxDynamicTableSize"`
			MaxHeaderListSize     uint32 `yaml:"maxHeaderListSize" mapstructure:"maxHeaderListSize"`
			MaxStringLength       int    `yaml:"maxStringLength" mapstructure:"maxStringLength"`
			MaxFrameSize          uint32 `yaml:"maxFrameSize" mapstructure:"maxFrameSize"`
			StrictExtendedConnect bool   `yaml:"strictExtendedConnect" mapstructure:"strictExtendedConnect"`
		} `yaml:"headerBlock" mapstructure:"headerBlock"`
	}
)
