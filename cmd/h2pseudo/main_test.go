// SPDX-License-Identifier: ice License 1.0

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ice-blockchain/h2ext/ext"
	"github.com/ice-blockchain/h2ext/method"
	apptesting "github.com/ice-blockchain/h2ext/testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()

	return strings.TrimSpace(out.String()), err
}

func TestEncodeThenDecode(t *testing.T) {
	t.Parallel()
	for _, qpack := range []bool{false, true} {
		encodeArgs := []string{
			"encode", "--url", "https://chat.example.com/chat?room=1",
			"--method", "CONNECT", "--protocol", "websocket", "--header", "sec-websocket-version: 13",
		}
		decodeArgs := []string{"decode"}
		if qpack {
			encodeArgs = append(encodeArgs, "--qpack")
			decodeArgs = append(decodeArgs, "--qpack")
		}
		block, err := execute(t, encodeArgs...)
		require.NoError(t, err)
		require.NotEmpty(t, block)

		out, err := execute(t, append(decodeArgs, block)...)
		require.NoError(t, err)
		actual := apptesting.MustUnmarshal[decoded](t, out)
		require.NotNil(t, actual.Pseudo)
		require.NotNil(t, actual.Pseudo.Method)
		assert.Equal(t, method.Connect, *actual.Pseudo.Method)
		require.NotNil(t, actual.Pseudo.Protocol)
		assert.Equal(t, ext.ProtocolWebsocket, actual.Pseudo.Protocol.String())
		assert.Equal(t, "/chat?room=1", actual.Pseudo.Path.String())
		assert.Equal(t, []string{"13"}, actual.Header["Sec-Websocket-Version"])
	}
}

func TestEncodeFromConfig(t *testing.T) {
	t.Parallel()
	block, err := execute(t, "encode", "--from-config", "self", "--path", "/other")
	require.NoError(t, err)

	out, err := execute(t, "decode", block)
	require.NoError(t, err)
	assert.Contains(t, out, `"protocol":"websocket"`)
	assert.Contains(t, out, `"path":"/other"`)
	assert.Contains(t, out, `"authority":"chat.example.com:443"`)
}

func TestEncodeRejectsInvalidFlags(t *testing.T) {
	t.Parallel()
	_, err := execute(t, "encode", "--method", "GE T", "--scheme", "1http")
	require.ErrorIs(t, err, method.ErrInvalidMethod)

	_, err = execute(t, "encode", "--header", "no-colon")
	require.Error(t, err)

	_, err = execute(t, "encode", "--protocol", "websocket")
	require.Error(t, err)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()
	_, err := execute(t, "decode", "zz")
	require.Error(t, err)

	_, err = execute(t, "decode", "ff")
	require.Error(t, err)
}
