// Copyright 2026 The LedgerGate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package id generates the two identifier kinds used by the service:
// time-ordered UUIDv7 strings for internal storage keys and random UUIDv4
// strings for identifiers handed to callers.
package id

import "github.com/google/uuid"

// NewUUIDv7 returns a time-ordered UUID string. Used for internal keys so
// index inserts stay roughly append-only.
func NewUUIDv7() string {
	u, err := uuid.NewV7()
	if err != nil {
		// NewV7 can only fail if the entropy source fails; v4 shares the
		// same source, so this fallback is effectively unreachable.
		return uuid.NewString()
	}
	return u.String()
}

// NewExternalID returns a random UUID string for identifiers that leave the
// system. Unlike v7 keys it encodes nothing about creation order.
func NewExternalID() string {
	return uuid.NewString()
}
