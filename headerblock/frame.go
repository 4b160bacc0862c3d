// SPDX-License-Identifier: ice License 1.0

package headerblock

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/net/http2"

	"github.com/ice-blockchain/h2ext/ext"
)

func (c *codec) WriteRequestHeaders(
	w io.Writer, streamID uint32, endStream bool, req *http.Request, override *ext.PseudoHeadersOverride,
) error {
	block, err := c.EncodeRequest(req, override)
	if err != nil {
		return err
	}
	fr := http2.NewFramer(w, nil)
	maxFrame := int(c.cfg.HeaderBlock.MaxFrameSize)
	first := block
	if len(first) > maxFrame {
		first = block[:maxFrame]
	}
	block = block[len(first):]
	if err = fr.WriteHeaders(http2.HeadersFrameParam{
		StreamID:      streamID,
		BlockFragment: first,
		EndStream:     endStream,
		EndHeaders:    len(block) == 0,
	}); err != nil {
		return errors.Wrapf(err, "failed to write HEADERS for stream %v", streamID)
	}
	for len(block) > 0 {
		chunk := block
		if len(chunk) > maxFrame {
			chunk = block[:maxFrame]
		}
		block = block[len(chunk):]
		if err = fr.WriteContinuation(streamID, len(block) == 0, chunk); err != nil {
			return errors.Wrapf(err, "failed to write CONTINUATION for stream %v", streamID)
		}
	}

	return nil
}

func (c *codec) ReadRequestHeaders(r io.Reader) (*RequestHead, error) {
	fr := http2.NewFramer(nil, r)
	fr.SetMaxReadFrameSize(c.cfg.HeaderBlock.MaxFrameSize)
	frame, err := fr.ReadFrame()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read HEADERS")
	}
	headers, ok := frame.(*http2.HeadersFrame)
	if !ok {
		return nil, errors.Wrapf(ErrUnexpectedFrame, "expected HEADERS, got %v", frame.Header().Type)
	}
	streamID := headers.StreamID
	block := append([]byte(nil), headers.HeaderBlockFragment()...)
	ended := headers.HeadersEnded()
	for !ended {
		if frame, err = fr.ReadFrame(); err != nil {
			return nil, errors.Wrap(err, "failed to read CONTINUATION")
		}
		cont, isCont := frame.(*http2.ContinuationFrame)
		if !isCont || cont.StreamID != streamID {
			return nil, errors.Wrapf(ErrUnexpectedFrame, "expected CONTINUATION for stream %v, got %v", streamID, frame.Header())
		}
		block = append(block, cont.HeaderBlockFragment()...)
		ended = cont.HeadersEnded()
	}
	head, err := c.DecodeRequest(block)
	if err != nil {
		return nil, errors.Wrapf(err, "stream %v", streamID)
	}
	head.StreamID = streamID
	head.EndStream = headers.StreamEnded()

	return head, nil
}
