// SPDX-License-Identifier: ice License 1.0

package headerblock

import (
	"bytes"
	"net/http"

	"github.com/pkg/errors"
	"github.com/quic-go/qpack"

	"github.com/ice-blockchain/h2ext/ext"
)

func (c *codec) EncodeRequestQPACK(req *http.Request, override *ext.PseudoHeadersOverride) ([]byte, error) {
	fields, err := c.requestFields(req, override)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := qpack.NewEncoder(&buf)
	for _, f := range fields {
		if err = enc.WriteField(qpack.HeaderField{Name: f.name, Value: f.value}); err != nil {
			return nil, errors.Wrapf(err, "failed to qpack encode %v", f.name)
		}
	}

	return buf.Bytes(), errors.Wrap(enc.Close(), "failed to close qpack encoder")
}

func (c *codec) DecodeRequestQPACK(block []byte) (*RequestHead, error) {
	decoded, err := qpack.NewDecoder(nil).DecodeFull(block)
	if err != nil {
		return nil, c.rejected(errors.Wrapf(ErrMalformedHeaderBlock, "qpack: %v", err))
	}
	fields := make([]headerField, 0, len(decoded))
	for _, f := range decoded {
		fields = append(fields, headerField{name: f.Name, value: f.Value})
	}

	return c.requestHead(fields)
}
