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

// Command hashkey derives the Argon2id hash for a platform admin key.
// The output goes into ADMIN_KEY_HASH; the key itself is never stored.
package main

import (
	"fmt"
	"os"

	"github.com/ledgergate/ledgergate/internal/adminauth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashkey <admin-key>")
		os.Exit(1)
	}

	hash, err := adminauth.DefaultKeyHasher().Hash(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
	fmt.Fprintln(os.Stderr, "Set ADMIN_KEY_HASH to the value above to enable the platform surface.")
}
