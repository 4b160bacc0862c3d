// SPDX-License-Identifier: ice License 1.0

package bytesstr

import (
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Public API.

var (
	ErrInvalidEncoding = errors.New("invalid utf-8 encoding")
)

type (
	// BytesStr is an immutable, valid UTF-8 string, either referencing process-wide static storage
	// or owning a byte region that every copy of the value shares.
	// It is not comparable with ==, use Equal.
	BytesStr struct {
		str    string
		shared []byte
	}
)

// Private API.

const (
	offsetDataKey = "offset"
)

var (
	_ msgpack.CustomEncoder   = (*BytesStr)(nil)
	_ msgpack.CustomDecoder   = (*BytesStr)(nil)
	_ json.MarshalerContext   = (*BytesStr)(nil)
	_ json.UnmarshalerContext = (*BytesStr)(nil)
)
