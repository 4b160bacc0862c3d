// SPDX-License-Identifier: ice License 1.0

package bytesstr

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ice-blockchain/h2ext/terror"
)

// FromStatic references s without copying it. s must live for the whole process, which string literals do.
// Invalid UTF-8 in s is replaced with U+FFFD, in which case the result is a shared copy.
func FromStatic(s string) BytesStr {
	if !utf8.ValidString(s) {
		return From(s)
	}

	return BytesStr{str: s}
}

// From copies s into a new shared region, so the result never pins whatever larger buffer s was sliced from.
// Invalid UTF-8 in s is replaced with U+FFFD; use TryFrom to reject it instead.
func From(s string) BytesStr {
	if s == "" {
		return BytesStr{}
	}

	return adopt([]byte(strings.ToValidUTF8(s, string(utf8.RuneError))))
}

// TryFrom validates b and takes ownership of it; b must not be modified afterwards.
// Invalid input yields ErrInvalidEncoding with the offset of the first invalid byte.
// Empty input yields the zero value, which is static like every empty BytesStr.
func TryFrom(b []byte) (BytesStr, error) {
	if offset := firstInvalid(b); offset >= 0 {
		return BytesStr{}, terror.New(ErrInvalidEncoding, map[string]any{offsetDataKey: offset})
	}
	if len(b) == 0 {
		return BytesStr{}, nil
	}

	return adopt(b), nil
}

// InvalidEncodingOffset reports the byte offset carried by an ErrInvalidEncoding anywhere in err's chain.
func InvalidEncodingOffset(err error) (int, bool) {
	if !errors.Is(err, ErrInvalidEncoding) {
		return 0, false
	}
	val, found := terror.As(err).Value(offsetDataKey)
	if !found {
		return 0, false
	}
	offset, ok := val.(int)

	return offset, ok
}

func adopt(b []byte) BytesStr {
	return BytesStr{str: unsafe.String(unsafe.SliceData(b), len(b)), shared: b}
}

func firstInvalid(b []byte) int {
	for i := 0; i < len(b); {
		if b[i] < utf8.RuneSelf {
			i++

			continue
		}
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}

	return -1
}

func (b BytesStr) String() string {
	return b.str
}

// Bytes is a borrowed, read-only view of the payload. Writing to it is undefined behaviour.
func (b BytesStr) Bytes() []byte {
	if b.shared != nil {
		return b.shared
	}

	return unsafe.Slice(unsafe.StringData(b.str), len(b.str))
}

func (b BytesStr) Len() int {
	return len(b.str)
}

func (b BytesStr) IsEmpty() bool {
	return b.str == ""
}

// IsStatic reports whether the payload references static storage rather than a shared region.
// The empty value is always static, whichever constructor produced it.
func (b BytesStr) IsStatic() bool {
	return b.shared == nil
}

func (b BytesStr) Equal(other BytesStr) bool {
	return b.str == other.str
}

func (b BytesStr) GoString() string {
	return strconv.Quote(b.str)
}

func (b *BytesStr) MarshalJSON(_ context.Context) ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	bytes, err := json.Marshal(b.str)

	return bytes, errors.Wrapf(err, "failed to marshal %#v", b)
}

func (b *BytesStr) UnmarshalJSON(_ context.Context, data []byte) error {
	var val string
	if err := json.Unmarshal(data, &val); err != nil {
		return errors.Wrapf(err, "failed to unmarshal %v", string(data))
	}
	decoded, err := TryFrom([]byte(val))
	if err != nil {
		return errors.Wrap(err, "json payload is not a valid string")
	}
	*b = decoded

	return nil
}

func (b *BytesStr) EncodeMsgpack(enc *msgpack.Encoder) error {
	return errors.Wrap(enc.EncodeString(b.str), "failed to EncodeString")
}

func (b *BytesStr) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeBytes()
	if err != nil {
		return errors.Wrap(err, "failed to BytesStr.DecodeMsgpack.DecodeBytes")
	}
	val, err := TryFrom(raw)
	if err != nil {
		return errors.Wrap(err, "msgpack payload is not a valid string")
	}
	*b = val

	return nil
}
