// SPDX-License-Identifier: ice License 1.0

package uri

import (
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

func ParseScheme(val string) (Scheme, error) {
	if val == "" {
		return "", errors.Wrap(ErrInvalidScheme, "empty")
	}
	for i := range len(val) {
		switch c := val[i]; {
		case isAlpha(c):
		case i > 0 && (isDigit(c) || c == '+' || c == '-' || c == '.'):
		default:
			return "", errors.Wrapf(ErrInvalidScheme, "%q has an invalid byte at %v", val, i)
		}
	}

	return Scheme(strings.ToLower(val)), nil
}

func (s Scheme) String() string {
	return string(s)
}

func ParseAuthority(val string) (Authority, error) {
	if val == "" {
		return Authority{}, errors.Wrap(ErrInvalidAuthority, "empty")
	}
	if i := strings.IndexFunc(val, func(r rune) bool {
		return r <= ' ' || r == 0x7f || r == '/' || r == '?' || r == '#'
	}); i >= 0 {
		return Authority{}, errors.Wrapf(ErrInvalidAuthority, "%q has an invalid byte at %v", val, i)
	}
	hostPort := val[strings.LastIndexByte(val, '@')+1:]
	if hostPort == "" {
		return Authority{}, errors.Wrapf(ErrInvalidAuthority, "%q has no host", val)
	}
	if _, port := splitHostPort(hostPort); port != "" {
		if n, err := strconv.ParseUint(port, 10, 16); err != nil || n == 0 {
			return Authority{}, errors.Wrapf(ErrInvalidAuthority, "%q has an invalid port", val)
		}
	} else if strings.HasSuffix(hostPort, ":") {
		return Authority{}, errors.Wrapf(ErrInvalidAuthority, "%q has an empty port", val)
	}

	return Authority{value: val}, nil
}

// AuthorityFromURL takes the host[:port] of u; userinfo is dropped since :authority must not carry it.
func AuthorityFromURL(u *url.URL) (Authority, error) {
	if u == nil {
		return Authority{}, errors.Wrap(ErrInvalidAuthority, "nil url")
	}

	return ParseAuthority(u.Host)
}

func (a Authority) Host() string {
	host, _ := splitHostPort(a.value[strings.LastIndexByte(a.value, '@')+1:])

	return host
}

func (a Authority) Port() string {
	_, port := splitHostPort(a.value[strings.LastIndexByte(a.value, '@')+1:])

	return port
}

func (a Authority) String() string {
	return a.value
}

func splitHostPort(hostPort string) (host, port string) {
	if h, p, err := net.SplitHostPort(hostPort); err == nil {
		return h, p
	}

	return strings.TrimSuffix(strings.TrimPrefix(hostPort, "["), "]"), ""
}

func ParsePathAndQuery(val string) (PathAndQuery, error) {
	if val == asteriskForm {
		return PathAndQuery{value: val}, nil
	}
	if !strings.HasPrefix(val, "/") {
		return PathAndQuery{}, errors.Wrapf(ErrInvalidPathAndQuery, "%q must start with /", val)
	}
	if i := strings.IndexFunc(val, func(r rune) bool {
		return r <= ' ' || r == 0x7f || r == '#'
	}); i >= 0 {
		return PathAndQuery{}, errors.Wrapf(ErrInvalidPathAndQuery, "%q has an invalid byte at %v", val, i)
	}

	return PathAndQuery{value: val}, nil
}

func PathAndQueryFromURL(u *url.URL) (PathAndQuery, error) {
	if u == nil {
		return PathAndQuery{}, errors.Wrap(ErrInvalidPathAndQuery, "nil url")
	}

	return ParsePathAndQuery(u.RequestURI())
}

func (p PathAndQuery) Path() string {
	if i := strings.IndexByte(p.value, '?'); i >= 0 {
		return p.value[:i]
	}

	return p.value
}

func (p PathAndQuery) Query() string {
	if i := strings.IndexByte(p.value, '?'); i >= 0 {
		return p.value[i+1:]
	}

	return ""
}

func (p PathAndQuery) String() string {
	return p.value
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
