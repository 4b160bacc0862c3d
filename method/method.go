// SPDX-License-Identifier: ice License 1.0

package method

import (
	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"
)

func Parse(val string) (Method, error) {
	if val == "" {
		return "", errors.Wrap(ErrInvalidMethod, "empty")
	}
	for i := range len(val) {
		if !httpguts.IsTokenRune(rune(val[i])) {
			return "", errors.Wrapf(ErrInvalidMethod, "%q has a non-token byte at %v", val, i)
		}
	}

	return Method(val), nil
}

func (m Method) String() string {
	return string(m)
}

func (m Method) IsConnect() bool {
	return m == Connect
}
