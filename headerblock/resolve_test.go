// SPDX-License-Identifier: ice License 1.0

package headerblock

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/h2ext/bytesstr"
	"github.com/ice-blockchain/h2ext/ext"
	"github.com/ice-blockchain/h2ext/method"
	"github.com/ice-blockchain/h2ext/uri"
)

func TestResolveNaturalValues(t *testing.T) {
	t.Parallel()
	req, err := http.NewRequest(http.MethodGet, "http://example.com:8080/a?b=c", http.NoBody)
	require.NoError(t, err)

	pseudo, err := Resolve(req, nil)
	require.NoError(t, err)
	assert.Equal(t, method.Get, pseudo.Method)
	assert.Equal(t, uri.SchemeHTTP, pseudo.Scheme)
	assert.Equal(t, "example.com:8080", pseudo.Authority.String())
	assert.Equal(t, "/a?b=c", pseudo.Path.String())
	assert.Nil(t, pseudo.Protocol)

	emptyOverride, err := Resolve(req, ext.NewPseudoHeadersOverride())
	require.NoError(t, err)
	assert.Equal(t, pseudo.Method, emptyOverride.Method)
	assert.True(t, pseudo.Path.Equal(emptyOverride.Path))
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()
	pseudo, err := Resolve(&http.Request{URL: &url.URL{Path: "/x"}, Host: "example.com"}, nil)
	require.NoError(t, err)
	assert.Equal(t, method.Get, pseudo.Method)
	assert.Equal(t, uri.SchemeHTTPS, pseudo.Scheme)
	assert.Equal(t, "example.com", pseudo.Authority.String())
	assert.Equal(t, "/x", pseudo.Path.String())
}

func TestResolveOverrideReplacesOnlySetFields(t *testing.T) {
	t.Parallel()
	req, err := http.NewRequest(http.MethodGet, "http://example.com/a", http.NoBody)
	require.NoError(t, err)
	override := ext.NewPseudoHeadersOverride().
		SetMethod(method.Connect).
		SetProtocol(ext.ProtocolFromStatic(ext.ProtocolWebsocket)).
		SetPath("/chat")

	pseudo, err := Resolve(req, override)
	require.NoError(t, err)
	assert.Equal(t, method.Connect, pseudo.Method)
	assert.Equal(t, uri.SchemeHTTP, pseudo.Scheme)
	assert.Equal(t, "example.com", pseudo.Authority.String())
	assert.Equal(t, "/chat", pseudo.Path.String())
	require.NotNil(t, pseudo.Protocol)
	assert.Equal(t, ext.ProtocolWebsocket, pseudo.Protocol.String())
}

func TestResolveProtocolFromRequest(t *testing.T) {
	t.Parallel()
	viaProto := &http.Request{Method: http.MethodConnect, Host: "chat.example.com", URL: &url.URL{Path: "/chat"}, Proto: "websocket"}
	pseudo, err := Resolve(viaProto, nil)
	require.NoError(t, err)
	require.NotNil(t, pseudo.Protocol)
	assert.Equal(t, ext.ProtocolWebsocket, pseudo.Protocol.String())

	viaHeader := &http.Request{
		Method: http.MethodConnect,
		Host:   "chat.example.com",
		URL:    &url.URL{Path: "/chat"},
		Proto:  "HTTP/2.0",
		Header: http.Header{PseudoHeaderProtocol: []string{ext.ProtocolWebtransport}},
	}
	pseudo, err = Resolve(viaHeader, nil)
	require.NoError(t, err)
	require.NotNil(t, pseudo.Protocol)
	assert.Equal(t, ext.ProtocolWebtransport, pseudo.Protocol.String())

	plain := &http.Request{Method: http.MethodConnect, Host: "proxy.example.com:443", URL: &url.URL{Host: "proxy.example.com:443"}, Proto: "HTTP/1.1"}
	pseudo, err = Resolve(plain, nil)
	require.NoError(t, err)
	assert.Nil(t, pseudo.Protocol)
}

func TestResolveRejectsInvalidProtocolEncoding(t *testing.T) {
	t.Parallel()
	viaHeader, err := http.NewRequest(http.MethodConnect, "https://chat.example.com/chat", http.NoBody)
	require.NoError(t, err)
	viaHeader.Header[PseudoHeaderProtocol] = []string{"web\xffsocket"}
	viaProto := &http.Request{Method: http.MethodConnect, Host: "chat.example.com", URL: &url.URL{Path: "/chat"}, Proto: "\xffws"}

	for expected, req := range map[int]*http.Request{3: viaHeader, 0: viaProto} {
		_, err = Resolve(req, nil)
		require.ErrorIs(t, err, bytesstr.ErrInvalidEncoding)
		offset, found := bytesstr.InvalidEncodingOffset(err)
		require.True(t, found)
		assert.Equal(t, expected, offset)

		_, err = New(testApplicationYAMLKey).EncodeRequest(req, nil)
		require.ErrorIs(t, err, bytesstr.ErrInvalidEncoding)
	}
}

func TestResolveInvalidRequest(t *testing.T) {
	t.Parallel()
	_, err := Resolve(nil, nil)
	require.ErrorIs(t, err, ErrInvalidRequest)

	_, err = Resolve(&http.Request{Method: "GE T", URL: &url.URL{Path: "/"}}, nil)
	require.ErrorIs(t, err, method.ErrInvalidMethod)

	_, err = Resolve(&http.Request{URL: &url.URL{Path: "/"}, Host: "bad host"}, nil)
	require.ErrorIs(t, err, ErrInvalidHeaderField)
}

func TestWireFieldsOrder(t *testing.T) {
	t.Parallel()
	protocol := ext.ProtocolFromStatic(ext.ProtocolWebsocket)
	pseudo := &PseudoHeaders{
		Protocol:  &protocol,
		Method:    method.Connect,
		Scheme:    uri.SchemeHTTPS,
		Authority: bytesstr.From("chat.example.com"),
		Path:      bytesstr.From("/chat"),
	}
	fields, err := pseudo.wireFields(true)
	require.NoError(t, err)
	assert.Equal(t, []headerField{
		{name: PseudoHeaderMethod, value: "CONNECT"},
		{name: PseudoHeaderScheme, value: "https"},
		{name: PseudoHeaderAuthority, value: "chat.example.com"},
		{name: PseudoHeaderPath, value: "/chat"},
		{name: PseudoHeaderProtocol, value: ext.ProtocolWebsocket},
	}, fields)

	pseudo.Protocol = nil
	fields, err = pseudo.wireFields(true)
	require.NoError(t, err)
	assert.Equal(t, []headerField{
		{name: PseudoHeaderMethod, value: "CONNECT"},
		{name: PseudoHeaderAuthority, value: "chat.example.com"},
	}, fields)
}

func TestWireFieldsStrictness(t *testing.T) {
	t.Parallel()
	protocol := ext.ProtocolFromStatic(ext.ProtocolWebsocket)
	pseudo := &PseudoHeaders{Protocol: &protocol, Method: method.Get, Scheme: uri.SchemeHTTPS, Path: bytesstr.From("/")}
	_, err := pseudo.wireFields(true)
	require.ErrorIs(t, err, ErrProtocolRequiresConnect)

	fields, err := pseudo.wireFields(false)
	require.NoError(t, err)
	assert.Len(t, fields, 4)

	pseudo = &PseudoHeaders{Method: method.Connect}
	_, err = pseudo.wireFields(true)
	require.ErrorIs(t, err, ErrMissingPseudoHeader)

	pseudo = &PseudoHeaders{Method: method.Get, Scheme: uri.SchemeHTTPS}
	_, err = pseudo.wireFields(true)
	require.ErrorIs(t, err, ErrMissingPseudoHeader)

	pseudo = &PseudoHeaders{Method: method.Get, Scheme: uri.SchemeHTTPS, Path: bytesstr.From("/a\nb")}
	_, err = pseudo.wireFields(false)
	require.ErrorIs(t, err, ErrInvalidHeaderField)
}

func TestRegularFields(t *testing.T) {
	t.Parallel()
	fields, err := regularFields(http.Header{
		"X-Trace":            {"2", "1"},
		"Connection":         {"keep-alive"},
		"Keep-Alive":         {"timeout=5"},
		"Upgrade":            {"websocket"},
		"Host":               {"example.com"},
		"Te":                 {"gzip", "trailers"},
		"Accept":             {"*/*"},
		PseudoHeaderProtocol: {ext.ProtocolWebsocket},
	})
	require.NoError(t, err)
	assert.Equal(t, []headerField{
		{name: "accept", value: "*/*"},
		{name: "te", value: "trailers"},
		{name: "x-trace", value: "2"},
		{name: "x-trace", value: "1"},
	}, fields)

	_, err = regularFields(http.Header{"Bad Name": {"x"}})
	require.ErrorIs(t, err, ErrInvalidHeaderField)
	_, err = regularFields(http.Header{"X-Bad": {"a\r\nb"}})
	require.ErrorIs(t, err, ErrInvalidHeaderField)
}
