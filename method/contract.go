// SPDX-License-Identifier: ice License 1.0

package method

import (
	"net/http"

	"github.com/pkg/errors"
)

// Public API.

const (
	Get     Method = http.MethodGet
	Head    Method = http.MethodHead
	Post    Method = http.MethodPost
	Put     Method = http.MethodPut
	Patch   Method = http.MethodPatch
	Delete  Method = http.MethodDelete
	Connect Method = http.MethodConnect
	Options Method = http.MethodOptions
	Trace   Method = http.MethodTrace
)

var (
	ErrInvalidMethod = errors.New("invalid http method")
)

type (
	// Method is a request method token as defined by RFC 9110 section 9.
	Method string
)
