// SPDX-License-Identifier: ice License 1.0

package main

import (
	"github.com/spf13/cobra"
)

const (
	defaultApplicationYAMLKey = "self"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "h2pseudo",
		Short: "Encode and decode HTTP/2 and HTTP/3 request header blocks",
		Long: `h2pseudo builds request header blocks with overridden pseudo-headers and decodes them back.

Examples:
  h2pseudo encode --url https://chat.example.com/chat --method CONNECT --protocol websocket
  h2pseudo encode --from-config self --qpack
  h2pseudo decode 8287418c...`,
		Version:      Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config-key", defaultApplicationYAMLKey, "application.yaml key holding the headerBlock section")
	root.AddCommand(newEncodeCmd(), newDecodeCmd())

	return root
}

func configKey(cmd *cobra.Command) string {
	key, err := cmd.Flags().GetString("config-key")
	if err != nil || key == "" {
		return defaultApplicationYAMLKey
	}

	return key
}
