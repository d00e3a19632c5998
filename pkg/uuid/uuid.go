// Copyright (c) 2026 Bizdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for the platform.

It wraps google/uuid to generate Version 7 values, which sort by creation time
and keep PostgreSQL B-tree indexes compact. Bizdesk uses them for primary keys,
audit entries, request ids, and the jti claim of issued tokens.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics only if the OS random source is unavailable.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s parses as a UUID of any version.
func Valid(s string) bool {
	return uuid.Validate(s) == nil
}
