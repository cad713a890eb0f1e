// Copyright 2025 walteh LLC
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

// Package verify computes and compares file content digests.
package verify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"gitlab.com/tozd/go/errors"
)

// 🔐 Verifier hashes file content with SHA-256. Hashes are always computed
// fresh from disk, never cached, so a comparison can never see stale state.
type Verifier struct{}

// 🏭 New creates a verifier.
func New() *Verifier {
	return &Verifier{}
}

// #️⃣ Hash returns the hex SHA-256 digest of the file's full content.
func (v *Verifier) Hash(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Errorf("hashing %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// ✅ Verify reports whether the two files have identical content. An I/O
// error reading either file is returned as an error, never as a mismatch.
func (v *Verifier) Verify(ctx context.Context, pathA, pathB string) (bool, error) {
	hashA, err := v.Hash(ctx, pathA)
	if err != nil {
		return false, err
	}
	hashB, err := v.Hash(ctx, pathB)
	if err != nil {
		return false, err
	}
	return hashA == hashB, nil
}
