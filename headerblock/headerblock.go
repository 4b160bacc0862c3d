// SPDX-License-Identifier: ice License 1.0

package headerblock

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"
	"golang.org/x/net/http2/hpack"

	"github.com/ice-blockchain/h2ext/bytesstr"
	appcfg "github.com/ice-blockchain/h2ext/config"
	"github.com/ice-blockchain/h2ext/ext"
	"github.com/ice-blockchain/h2ext/log"
	"github.com/ice-blockchain/h2ext/method"
	"github.com/ice-blockchain/h2ext/uri"
)

func New(applicationYAMLKey string) Codec {
	var cfg config
	appcfg.MustLoadFromKey(applicationYAMLKey, &cfg)
	if cfg.HeaderBlock.MaxDynamicTableSize == 0 {
		cfg.HeaderBlock.MaxDynamicTableSize = defaultMaxDynamicTableSize
	}
	if cfg.HeaderBlock.MaxFrameSize == 0 {
		cfg.HeaderBlock.MaxFrameSize = defaultMaxFrameSize
	}
	c := &codec{cfg: &cfg}
	c.enc = hpack.NewEncoder(&c.encBuf)
	c.enc.SetMaxDynamicTableSizeLimit(cfg.HeaderBlock.MaxDynamicTableSize)
	c.dec = hpack.NewDecoder(cfg.HeaderBlock.MaxDynamicTableSize, nil)
	if cfg.HeaderBlock.MaxStringLength > 0 {
		c.dec.SetMaxStringLength(cfg.HeaderBlock.MaxStringLength)
	}

	return c
}

func (c *codec) requestFields(req *http.Request, override *ext.PseudoHeadersOverride) ([]headerField, error) {
	pseudo, err := Resolve(req, override)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve pseudo-headers")
	}
	if !override.IsEmpty() {
		log.Debug(fmt.Sprintf("encoding %v %v with overridden pseudo-headers", pseudo.Method, pseudo.Path))
	}
	fields, err := pseudo.wireFields(c.cfg.HeaderBlock.StrictExtendedConnect)
	if err != nil {
		return nil, errors.Wrap(err, "invalid pseudo-headers")
	}
	regular, err := regularFields(req.Header)
	if err != nil {
		return nil, errors.Wrap(err, "invalid request headers")
	}
	fields = append(fields, regular...)

	return fields, errors.Wrap(c.checkListSize(fields), "request headers")
}

func (c *codec) checkListSize(fields []headerField) error {
	limit := c.cfg.HeaderBlock.MaxHeaderListSize
	if limit == 0 {
		return nil
	}
	var size uint32
	for _, f := range fields {
		size += uint32(len(f.name) + len(f.value) + headerFieldOverhead) //nolint:gosec // Bounded by the max string length.
		if size > limit {
			return errors.Wrapf(ErrHeaderListTooLarge, "exceeds %v bytes", limit)
		}
	}

	return nil
}

func (c *codec) EncodeRequest(req *http.Request, override *ext.PseudoHeadersOverride) ([]byte, error) {
	fields, err := c.requestFields(req, override)
	if err != nil {
		return nil, err
	}
	c.encMx.Lock()
	defer c.encMx.Unlock()
	c.encBuf.Reset()
	for _, f := range fields {
		if err = c.enc.WriteField(hpack.HeaderField{Name: f.name, Value: f.value, Sensitive: isSensitive(f.name)}); err != nil {
			return nil, errors.Wrapf(err, "failed to hpack encode %v", f.name)
		}
	}

	return bytes.Clone(c.encBuf.Bytes()), nil
}

func (c *codec) DecodeRequest(block []byte) (*RequestHead, error) {
	c.decMx.Lock()
	decoded, err := c.dec.DecodeFull(block)
	c.decMx.Unlock()
	if err != nil {
		return nil, c.rejected(errors.Wrapf(ErrMalformedHeaderBlock, "hpack: %v", err))
	}
	fields := make([]headerField, 0, len(decoded))
	for _, f := range decoded {
		fields = append(fields, headerField{name: f.Name, value: f.Value})
	}

	return c.requestHead(fields)
}

func (c *codec) requestHead(fields []headerField) (*RequestHead, error) {
	if err := c.checkListSize(fields); err != nil {
		return nil, c.rejected(err)
	}
	head := &RequestHead{Pseudo: ext.NewPseudoHeadersOverride(), Header: make(http.Header, len(fields))}
	var regularSeen bool
	for _, f := range fields {
		if !strings.HasPrefix(f.name, ":") {
			regularSeen = true
			if !httpguts.ValidHeaderFieldName(f.name) || strings.ToLower(f.name) != f.name {
				return nil, c.rejected(errors.Wrapf(ErrInvalidHeaderField, "name %q", f.name))
			}
			head.Header.Add(f.name, f.value)

			continue
		}
		if regularSeen {
			return nil, c.rejected(errors.Wrap(ErrPseudoHeaderAfterRegular, f.name))
		}
		if err := setPseudo(head.Pseudo, f); err != nil {
			return nil, c.rejected(err)
		}
	}
	if c.cfg.HeaderBlock.StrictExtendedConnect {
		if err := validateRequestPseudo(head.Pseudo); err != nil {
			return nil, c.rejected(err)
		}
	}

	return head, nil
}

//nolint:funlen,gocyclo,revive,cyclop // A flat switch over every pseudo-header.
func setPseudo(pseudo *ext.PseudoHeadersOverride, f headerField) error {
	switch f.name {
	case PseudoHeaderMethod:
		if pseudo.Method != nil {
			return errors.Wrap(ErrDuplicatePseudoHeader, f.name)
		}
		m, err := method.Parse(f.value)
		if err != nil {
			return errors.Wrap(err, f.name)
		}
		pseudo.SetMethod(m)
	case PseudoHeaderScheme:
		if pseudo.Scheme != nil {
			return errors.Wrap(ErrDuplicatePseudoHeader, f.name)
		}
		scheme, err := uri.ParseScheme(f.value)
		if err != nil {
			return errors.Wrap(err, f.name)
		}
		pseudo.SetScheme(scheme)
	case PseudoHeaderAuthority:
		if pseudo.Authority != nil {
			return errors.Wrap(ErrDuplicatePseudoHeader, f.name)
		}
		authority, err := bytesstr.TryFrom([]byte(f.value))
		if err != nil {
			return errors.Wrap(err, f.name)
		}
		pseudo.Authority = &authority
	case PseudoHeaderPath:
		if pseudo.Path != nil {
			return errors.Wrap(ErrDuplicatePseudoHeader, f.name)
		}
		path, err := bytesstr.TryFrom([]byte(f.value))
		if err != nil {
			return errors.Wrap(err, f.name)
		}
		pseudo.Path = &path
	case PseudoHeaderProtocol:
		if pseudo.Protocol != nil {
			return errors.Wrap(ErrDuplicatePseudoHeader, f.name)
		}
		protocol, err := ext.TryProtocolFrom([]byte(f.value))
		if err != nil {
			return errors.Wrap(err, f.name)
		}
		pseudo.SetProtocol(protocol)
	default:
		return errors.Wrap(ErrUnknownPseudoHeader, f.name)
	}

	return nil
}

func validateRequestPseudo(pseudo *ext.PseudoHeadersOverride) error {
	if pseudo.Method == nil {
		return errors.Wrap(ErrMissingPseudoHeader, PseudoHeaderMethod)
	}
	if pseudo.Protocol != nil && !pseudo.Method.IsConnect() {
		return errors.Wrapf(ErrProtocolRequiresConnect, "got %v", *pseudo.Method)
	}
	if pseudo.Method.IsConnect() && pseudo.Protocol == nil {
		if pseudo.Authority == nil || pseudo.Authority.IsEmpty() {
			return errors.Wrapf(ErrMissingPseudoHeader, "%v for CONNECT", PseudoHeaderAuthority)
		}
		if pseudo.Scheme != nil || pseudo.Path != nil {
			return errors.Wrapf(ErrMalformedHeaderBlock, "CONNECT must not carry %v or %v", PseudoHeaderScheme, PseudoHeaderPath)
		}

		return nil
	}
	if pseudo.Scheme == nil {
		return errors.Wrap(ErrMissingPseudoHeader, PseudoHeaderScheme)
	}
	if pseudo.Path == nil || pseudo.Path.IsEmpty() {
		return errors.Wrap(ErrMissingPseudoHeader, PseudoHeaderPath)
	}

	return nil
}

func (*codec) rejected(err error) error {
	log.Debug(fmt.Sprintf("rejected request header block: %v", err))

	return err
}

func isSensitive(name string) bool {
	return name == "authorization" || name == "proxy-authorization"
}
