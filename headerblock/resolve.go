// SPDX-License-Identifier: ice License 1.0

package headerblock

import (
	"net/http"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"

	"github.com/ice-blockchain/h2ext/bytesstr"
	"github.com/ice-blockchain/h2ext/ext"
	"github.com/ice-blockchain/h2ext/method"
	"github.com/ice-blockchain/h2ext/uri"
)

// Resolve derives the pseudo-headers req would naturally carry and replaces every one that override sets.
func Resolve(req *http.Request, override *ext.PseudoHeadersOverride) (*PseudoHeaders, error) {
	pseudo, err := natural(req)
	if err != nil {
		return nil, err
	}
	if override.IsEmpty() {
		return pseudo, nil
	}
	if override.Method != nil {
		pseudo.Method = *override.Method
	}
	if override.Scheme != nil {
		pseudo.Scheme = *override.Scheme
	}
	if override.Authority != nil {
		pseudo.Authority = *override.Authority
	}
	if override.Path != nil {
		pseudo.Path = *override.Path
	}
	if override.Protocol != nil {
		protocol := *override.Protocol
		pseudo.Protocol = &protocol
	}

	return pseudo, nil
}

//nolint:funlen // .
func natural(req *http.Request) (*PseudoHeaders, error) {
	if req == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "nil request")
	}
	pseudo := &PseudoHeaders{Method: method.Get, Scheme: uri.SchemeHTTPS}
	if req.Method != "" {
		m, err := method.Parse(req.Method)
		if err != nil {
			return nil, errors.Wrap(err, "request method")
		}
		pseudo.Method = m
	}
	host := req.Host
	if req.URL != nil {
		if req.URL.Scheme != "" {
			scheme, err := uri.ParseScheme(req.URL.Scheme)
			if err != nil {
				return nil, errors.Wrap(err, "request url scheme")
			}
			pseudo.Scheme = scheme
		}
		if host == "" {
			host = req.URL.Host
		}
		pseudo.Path = bytesstr.From(req.URL.RequestURI())
	}
	if host != "" {
		if !httpguts.ValidHostHeader(host) {
			return nil, errors.Wrapf(ErrInvalidHeaderField, "invalid host %q", host)
		}
		pseudo.Authority = bytesstr.From(host)
	}
	var rawProtocol string
	if values := req.Header[PseudoHeaderProtocol]; len(values) > 0 && values[0] != "" {
		rawProtocol = values[0]
	} else if pseudo.Method.IsConnect() && req.Proto != "" && !strings.HasPrefix(req.Proto, "HTTP/") {
		rawProtocol = req.Proto
	}
	if rawProtocol != "" {
		protocol, err := ext.TryProtocolFrom([]byte(rawProtocol))
		if err != nil {
			return nil, errors.Wrap(err, "request protocol")
		}
		pseudo.Protocol = &protocol
	}

	return pseudo, nil
}

// wireFields lists the pseudo-header fields in wire order.
// A CONNECT without :protocol carries only :method and :authority (RFC 9113 section 8.5).
func (p *PseudoHeaders) wireFields(strict bool) ([]headerField, error) { //nolint:revive // Control coupling is intended here.
	if p.Protocol == nil && p.Method.IsConnect() {
		if strict && p.Authority.IsEmpty() {
			return nil, errors.Wrapf(ErrMissingPseudoHeader, "%v for CONNECT", PseudoHeaderAuthority)
		}

		return p.validated([]headerField{
			{name: PseudoHeaderMethod, value: p.Method.String()},
			{name: PseudoHeaderAuthority, value: p.Authority.String()},
		})
	}
	if strict {
		if p.Protocol != nil && !p.Method.IsConnect() {
			return nil, errors.Wrapf(ErrProtocolRequiresConnect, "got %v", p.Method)
		}
		if p.Scheme == "" {
			return nil, errors.Wrap(ErrMissingPseudoHeader, PseudoHeaderScheme)
		}
		if p.Path.IsEmpty() {
			return nil, errors.Wrap(ErrMissingPseudoHeader, PseudoHeaderPath)
		}
	}
	fields := make([]headerField, 0, 5) //nolint:mnd // All the request pseudo-headers.
	fields = append(fields,
		headerField{name: PseudoHeaderMethod, value: p.Method.String()},
		headerField{name: PseudoHeaderScheme, value: p.Scheme.String()},
	)
	if !p.Authority.IsEmpty() {
		fields = append(fields, headerField{name: PseudoHeaderAuthority, value: p.Authority.String()})
	}
	fields = append(fields, headerField{name: PseudoHeaderPath, value: p.Path.String()})
	if p.Protocol != nil {
		fields = append(fields, headerField{name: PseudoHeaderProtocol, value: p.Protocol.String()})
	}

	return p.validated(fields)
}

func (*PseudoHeaders) validated(fields []headerField) ([]headerField, error) {
	for _, f := range fields {
		if !httpguts.ValidHeaderFieldValue(f.value) {
			return nil, errors.Wrapf(ErrInvalidHeaderField, "%v: %q", f.name, f.value)
		}
	}

	return fields, nil
}

func regularFields(header http.Header) ([]headerField, error) {
	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	fields := make([]headerField, 0, len(names))
	for _, name := range names {
		lower := strings.ToLower(name)
		if strings.HasPrefix(lower, ":") || lower == "host" || isConnectionSpecific(lower) {
			continue
		}
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, errors.Wrapf(ErrInvalidHeaderField, "name %q", name)
		}
		for _, value := range header[name] {
			if lower == "te" && !strings.EqualFold(value, "trailers") {
				continue
			}
			if !httpguts.ValidHeaderFieldValue(value) {
				return nil, errors.Wrapf(ErrInvalidHeaderField, "%v: %q", lower, value)
			}
			fields = append(fields, headerField{name: lower, value: value})
		}
	}

	return fields, nil
}

func isConnectionSpecific(lowerName string) bool {
	switch lowerName {
	case "connection", "proxy-connection", "keep-alive", "transfer-encoding", "upgrade":
		return true
	default:
		return false
	}
}
