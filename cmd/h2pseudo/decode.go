// SPDX-License-Identifier: ice License 1.0

package main

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ice-blockchain/h2ext/ext"
	"github.com/ice-blockchain/h2ext/headerblock"
)

type (
	decoded struct {
		Pseudo *ext.PseudoHeadersOverride `json:"pseudoHeaders"`
		Header http.Header                `json:"headers,omitempty"`
	}
)

func newDecodeCmd() *cobra.Command {
	var qpack bool
	cmd := &cobra.Command{
		Use:     "decode <hex>",
		Short:   "Decode a hex request header block and print it as JSON",
		Example: `  h2pseudo decode "$(h2pseudo encode --method CONNECT --protocol websocket)"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			block, err := hex.DecodeString(strings.TrimSpace(args[0]))
			if err != nil {
				return errors.Wrap(err, "block is not hex")
			}
			codec := headerblock.New(configKey(cmd))
			var head *headerblock.RequestHead
			if qpack {
				head, err = codec.DecodeRequestQPACK(block)
			} else {
				head, err = codec.DecodeRequest(block)
			}
			if err != nil {
				return errors.Wrap(err, "failed to decode block")
			}
			out, err := json.MarshalContext(cmd.Context(), &decoded{Pseudo: head.Pseudo, Header: head.Header})
			if err != nil {
				return errors.Wrap(err, "failed to marshal decoded block")
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return errors.Wrap(err, "failed to print decoded block")
		},
	}
	cmd.Flags().BoolVar(&qpack, "qpack", false, "the block is QPACK instead of HPACK")

	return cmd
}
