// Copyright 2025 Certen Protocol

package payload

import "errors"

var errMalformedPayload = errors.New("payload: malformed encoding")
