// SPDX-License-Identifier: ice License 1.0

package ext

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/xxh3"

	"github.com/ice-blockchain/h2ext/bytesstr"
)

// ProtocolFromStatic converts a string that lives for the whole process, e.g. a literal, without copying it.
func ProtocolFromStatic(value string) Protocol {
	return Protocol{value: bytesstr.FromStatic(value)}
}

func ProtocolFrom(value string) Protocol {
	return Protocol{value: bytesstr.From(value)}
}

// TryProtocolFrom is the validation gate for `:protocol` values read off the wire.
// It takes ownership of value, unless value is a well-known token, in which case the static token is returned instead.
func TryProtocolFrom(value []byte) (Protocol, error) {
	if known, found := wellKnownProtocols[xxh3.Hash(value)]; found && known.String() == string(value) {
		return known, nil
	}
	val, err := bytesstr.TryFrom(value)
	if err != nil {
		return Protocol{}, errors.Wrap(err, "invalid :protocol")
	}

	return Protocol{value: val}, nil
}

func internProtocols(names ...string) map[uint64]Protocol {
	interned := make(map[uint64]Protocol, len(names))
	for _, name := range names {
		interned[xxh3.HashString(name)] = ProtocolFromStatic(name)
	}

	return interned
}

func (p Protocol) String() string {
	return p.value.String()
}

// Bytes is the read-only wire form, already known to be valid.
func (p Protocol) Bytes() []byte {
	return p.value.Bytes()
}

func (p Protocol) Equal(other Protocol) bool {
	return p.value.Equal(other.value)
}

func (p Protocol) IsStatic() bool {
	return p.value.IsStatic()
}

func (p Protocol) GoString() string {
	return p.value.GoString()
}

func (p *Protocol) MarshalJSON(ctx context.Context) ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}

	return p.value.MarshalJSON(ctx)
}

func (p *Protocol) UnmarshalJSON(_ context.Context, data []byte) error {
	var val string
	if err := json.Unmarshal(data, &val); err != nil {
		return errors.Wrapf(err, "failed to unmarshal protocol %v", string(data))
	}
	decoded, err := TryProtocolFrom([]byte(val))
	if err != nil {
		return err
	}
	*p = decoded

	return nil
}

func (p *Protocol) EncodeMsgpack(enc *msgpack.Encoder) error {
	return p.value.EncodeMsgpack(enc)
}

func (p *Protocol) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeBytes()
	if err != nil {
		return errors.Wrap(err, "failed to Protocol.DecodeMsgpack.DecodeBytes")
	}
	decoded, err := TryProtocolFrom(raw)
	if err != nil {
		return err
	}
	*p = decoded

	return nil
}
