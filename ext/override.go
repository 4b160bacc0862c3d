// SPDX-License-Identifier: ice License 1.0

package ext

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/h2ext/bytesstr"
	appcfg "github.com/ice-blockchain/h2ext/config"
	"github.com/ice-blockchain/h2ext/log"
	"github.com/ice-blockchain/h2ext/method"
	"github.com/ice-blockchain/h2ext/uri"
)

func NewPseudoHeadersOverride() *PseudoHeadersOverride {
	return new(PseudoHeadersOverride)
}

// OverrideFromConfig builds an override set out of the `pseudoHeadersOverride` section under applicationYAMLKey.
// Empty entries stay unset; every entry that fails to parse is reported.
func OverrideFromConfig(applicationYAMLKey string) (*PseudoHeadersOverride, error) {
	var cfg config
	if err := appcfg.LoadFromKey(applicationYAMLKey, &cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to load pseudo headers override for %v", applicationYAMLKey)
	}
	entries := cfg.PseudoHeadersOverride
	o := NewPseudoHeadersOverride()
	var mErr *multierror.Error
	if entries.Method != "" {
		m, err := method.Parse(entries.Method)
		mErr = multierror.Append(mErr, errors.Wrap(err, "method"))
		o = o.SetMethod(m)
	}
	if entries.Scheme != "" {
		s, err := uri.ParseScheme(entries.Scheme)
		mErr = multierror.Append(mErr, errors.Wrap(err, "scheme"))
		o = o.SetScheme(s)
	}
	if entries.Authority != "" {
		a, err := uri.ParseAuthority(entries.Authority)
		mErr = multierror.Append(mErr, errors.Wrap(err, "authority"))
		o = o.SetAuthority(a)
	}
	if entries.Path != "" {
		p, err := uri.ParsePathAndQuery(entries.Path)
		mErr = multierror.Append(mErr, errors.Wrap(err, "path"))
		o = o.SetPathAndQuery(p)
	}
	if entries.Protocol != "" {
		o = o.SetProtocol(ProtocolFrom(entries.Protocol))
	}
	if err := mErr.ErrorOrNil(); err != nil {
		return nil, errors.Wrapf(err, "invalid pseudo headers override for %v", applicationYAMLKey)
	}
	log.Debug("loaded pseudo headers override", "key", applicationYAMLKey)

	return o, nil
}

func (o *PseudoHeadersOverride) SetMethod(m method.Method) *PseudoHeadersOverride {
	if o == nil {
		return NewPseudoHeadersOverride().SetMethod(m)
	}
	o.Method = &m

	return o
}

func (o *PseudoHeadersOverride) SetScheme(scheme uri.Scheme) *PseudoHeadersOverride {
	if o == nil {
		return NewPseudoHeadersOverride().SetScheme(scheme)
	}
	o.Scheme = &scheme

	return o
}

func (o *PseudoHeadersOverride) SetAuthority(authority uri.Authority) *PseudoHeadersOverride {
	return o.SetAuthorityStr(authority.String())
}

// SetAuthorityStr stores authority as is, it is not checked against the authority grammar.
func (o *PseudoHeadersOverride) SetAuthorityStr(authority string) *PseudoHeadersOverride {
	if o == nil {
		return NewPseudoHeadersOverride().SetAuthorityStr(authority)
	}
	val := bytesstr.From(authority)
	o.Authority = &val

	return o
}

func (o *PseudoHeadersOverride) SetPathAndQuery(path uri.PathAndQuery) *PseudoHeadersOverride {
	return o.SetPath(path.String())
}

// SetPath stores path as is, it is not checked against the path grammar.
func (o *PseudoHeadersOverride) SetPath(path string) *PseudoHeadersOverride {
	if o == nil {
		return NewPseudoHeadersOverride().SetPath(path)
	}
	val := bytesstr.From(path)
	o.Path = &val

	return o
}

func (o *PseudoHeadersOverride) SetProtocol(protocol Protocol) *PseudoHeadersOverride {
	if o == nil {
		return NewPseudoHeadersOverride().SetProtocol(protocol)
	}
	o.Protocol = &protocol

	return o
}

func (o *PseudoHeadersOverride) IsEmpty() bool {
	return o == nil || (o.Method == nil && o.Scheme == nil && o.Authority == nil && o.Path == nil && o.Protocol == nil)
}
