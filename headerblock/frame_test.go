// SPDX-License-Identifier: ice License 1.0

package headerblock

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/http2"

	"github.com/ice-blockchain/h2ext/ext"
	"github.com/ice-blockchain/h2ext/method"
)

func TestWriteReadRequestHeadersWithContinuation(t *testing.T) {
	t.Parallel()
	codec := New("fragmented")
	override := ext.NewPseudoHeadersOverride().SetProtocol(ext.ProtocolFromStatic(ext.ProtocolWebsocket))
	var wire bytes.Buffer
	require.NoError(t, codec.WriteRequestHeaders(&wire, 3, false, websocketRequest(t), override))

	fr := http2.NewFramer(nil, bytes.NewReader(wire.Bytes()))
	frame, err := fr.ReadFrame()
	require.NoError(t, err)
	headers, ok := frame.(*http2.HeadersFrame)
	require.True(t, ok)
	assert.False(t, headers.HeadersEnded())
	assert.LessOrEqual(t, len(headers.HeaderBlockFragment()), 16)
	var continuations int
	for {
		frame, err = fr.ReadFrame()
		require.NoError(t, err)
		cont, isCont := frame.(*http2.ContinuationFrame)
		require.True(t, isCont)
		continuations++
		if cont.HeadersEnded() {
			break
		}
	}
	assert.Positive(t, continuations)

	head, err := codec.ReadRequestHeaders(&wire)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), head.StreamID)
	assert.False(t, head.EndStream)
	assert.Equal(t, method.Connect, *head.Pseudo.Method)
	assert.Equal(t, ext.ProtocolWebsocket, head.Pseudo.Protocol.String())
	assert.Equal(t, "13", head.Header.Get("Sec-Websocket-Version"))
}

func TestWriteReadRequestHeadersSingleFrame(t *testing.T) {
	t.Parallel()
	codec := New(testApplicationYAMLKey)
	var wire bytes.Buffer
	require.NoError(t, codec.WriteRequestHeaders(&wire, 1, true, websocketRequest(t), nil))

	head, err := codec.ReadRequestHeaders(&wire)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), head.StreamID)
	assert.True(t, head.EndStream)
	assert.Equal(t, method.Connect, *head.Pseudo.Method)
	assert.Equal(t, "chat.example.com", head.Pseudo.Authority.String())
	assert.Nil(t, head.Pseudo.Path)
	assert.Nil(t, head.Pseudo.Protocol)
}

func TestReadRequestHeadersUnexpectedFrame(t *testing.T) {
	t.Parallel()
	var wire bytes.Buffer
	require.NoError(t, http2.NewFramer(&wire, nil).WriteData(1, true, []byte("body")))

	_, err := New(testApplicationYAMLKey).ReadRequestHeaders(&wire)
	require.ErrorIs(t, err, ErrUnexpectedFrame)
}

func TestReadRequestHeadersInterleavedFrame(t *testing.T) {
	t.Parallel()
	var wire bytes.Buffer
	fr := http2.NewFramer(&wire, nil)
	block := rawBlock(t, field(PseudoHeaderMethod, "GET"))
	require.NoError(t, fr.WriteHeaders(http2.HeadersFrameParam{StreamID: 1, BlockFragment: block}))
	require.NoError(t, fr.WriteData(1, true, []byte("body")))

	_, err := New(testApplicationYAMLKey).ReadRequestHeaders(&wire)
	require.Error(t, err)
}
