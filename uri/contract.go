// SPDX-License-Identifier: ice License 1.0

package uri

import (
	"github.com/pkg/errors"
)

// Public API.

const (
	SchemeHTTP  Scheme = "http"
	SchemeHTTPS Scheme = "https"
)

var (
	ErrInvalidScheme       = errors.New("invalid uri scheme")
	ErrInvalidAuthority    = errors.New("invalid uri authority")
	ErrInvalidPathAndQuery = errors.New("invalid uri path and query")
)

type (
	// Scheme is a lower-cased RFC 3986 scheme.
	Scheme string
	// Authority is the `[userinfo@]host[:port]` part of a URI.
	Authority struct {
		value string
	}
	// PathAndQuery is an origin-form (`/path?query`) or asterisk-form (`*`) request target.
	PathAndQuery struct {
		value string
	}
)

// Private API.

const (
	asteriskForm = "*"
)
