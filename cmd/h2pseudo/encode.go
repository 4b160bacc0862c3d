// SPDX-License-Identifier: ice License 1.0

package main

import (
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ice-blockchain/h2ext/ext"
	"github.com/ice-blockchain/h2ext/headerblock"
	"github.com/ice-blockchain/h2ext/method"
	"github.com/ice-blockchain/h2ext/uri"
)

type (
	encodeFlags struct {
		url        string
		method     string
		scheme     string
		authority  string
		path       string
		protocol   string
		fromConfig string
		headers    []string
		qpack      bool
	}
)

func newEncodeCmd() *cobra.Command {
	flags := new(encodeFlags)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a request header block and print it as hex",
		Example: `  h2pseudo encode --url https://chat.example.com/chat --method CONNECT --protocol websocket
  h2pseudo encode --url https://example.com/ --header "accept: */*" --qpack`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEncode(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.url, "url", "https://localhost/", "request url")
	cmd.Flags().StringVar(&flags.method, "method", "", "override :method")
	cmd.Flags().StringVar(&flags.scheme, "scheme", "", "override :scheme")
	cmd.Flags().StringVar(&flags.authority, "authority", "", "override :authority")
	cmd.Flags().StringVar(&flags.path, "path", "", "override :path")
	cmd.Flags().StringVar(&flags.protocol, "protocol", "", "override :protocol")
	cmd.Flags().StringArrayVar(&flags.headers, "header", nil, `regular header as "name: value", repeatable`)
	cmd.Flags().BoolVar(&flags.qpack, "qpack", false, "emit a QPACK block instead of HPACK")
	cmd.Flags().StringVar(&flags.fromConfig, "from-config", "", "application.yaml key to load the pseudoHeadersOverride section from")

	return cmd
}

func runEncode(cmd *cobra.Command, flags *encodeFlags) error {
	req, err := flags.request(cmd)
	if err != nil {
		return err
	}
	override, err := flags.override()
	if err != nil {
		return err
	}
	codec := headerblock.New(configKey(cmd))
	var block []byte
	if flags.qpack {
		block, err = codec.EncodeRequestQPACK(req, override)
	} else {
		block, err = codec.EncodeRequest(req, override)
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode request")
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(block))

	return errors.Wrap(err, "failed to print block")
}

func (f *encodeFlags) request(cmd *cobra.Command) (*http.Request, error) {
	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, f.url, http.NoBody)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid url %q", f.url)
	}
	for _, h := range f.headers {
		name, value, found := strings.Cut(h, ":")
		if !found {
			return nil, errors.Errorf(`header %q is not "name: value"`, h)
		}
		req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	return req, nil
}

//nolint:funlen // One branch per pseudo-header.
func (f *encodeFlags) override() (*ext.PseudoHeadersOverride, error) {
	override := ext.NewPseudoHeadersOverride()
	if f.fromConfig != "" {
		var err error
		if override, err = ext.OverrideFromConfig(f.fromConfig); err != nil {
			return nil, err
		}
	}
	var mErr *multierror.Error
	if f.method != "" {
		m, err := method.Parse(f.method)
		mErr = multierror.Append(mErr, errors.Wrap(err, "--method"))
		override = override.SetMethod(m)
	}
	if f.scheme != "" {
		s, err := uri.ParseScheme(f.scheme)
		mErr = multierror.Append(mErr, errors.Wrap(err, "--scheme"))
		override = override.SetScheme(s)
	}
	if f.authority != "" {
		a, err := uri.ParseAuthority(f.authority)
		mErr = multierror.Append(mErr, errors.Wrap(err, "--authority"))
		override = override.SetAuthority(a)
	}
	if f.path != "" {
		p, err := uri.ParsePathAndQuery(f.path)
		mErr = multierror.Append(mErr, errors.Wrap(err, "--path"))
		override = override.SetPathAndQuery(p)
	}
	if f.protocol != "" {
		p, err := ext.TryProtocolFrom([]byte(f.protocol))
		mErr = multierror.Append(mErr, errors.Wrap(err, "--protocol"))
		override = override.SetProtocol(p)
	}
	if err := mErr.ErrorOrNil(); err != nil {
		return nil, errors.Wrap(err, "invalid override flags")
	}

	return override, nil
}
