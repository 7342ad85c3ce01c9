// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package auth

// DummyPasswordHash exposes the login timing equalizer to tests.
const DummyPasswordHash = dummyPasswordHash

// NewBcryptHasherWithCost creates a hasher with a non-default cost, used to
// produce legacy digests in tests.
func NewBcryptHasherWithCost(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}
