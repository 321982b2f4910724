// Copyright 2025 Certen Protocol

package chain

import "errors"

var errMalformedBlock = errors.New("chain: malformed block encoding")
