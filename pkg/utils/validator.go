// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package utils

import "strings"

// IsEmpty reports whether s is empty or only whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}
