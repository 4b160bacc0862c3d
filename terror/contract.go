// SPDX-License-Identifier: ice License 1.0

package terror

// Public API.

type (
	// Err is an error enriched with structured data describing what was wrong with the input.
	Err struct {
		error
		Data map[string]any `json:"data"`
	}
)
