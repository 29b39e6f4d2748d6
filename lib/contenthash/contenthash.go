// Copyright 2026 The Cronfleet Authors
// SPDX-License-Identifier: Apache-2.0

package contenthash

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest of crontab content.
type Digest [32]byte

// crontabDomainKey is the 32-byte key for BLAKE3 keyed hashing. Domain
// separation ensures crontab digests never collide with digests of the
// same bytes computed in some other context. The byte values are the
// ASCII encoding of the domain name, zero-padded to 32 bytes, so the
// key is inspectable in hex dumps without sacrificing any property of
// keyed mode.
var crontabDomainKey = [32]byte{
	'c', 'r', 'o', 'n', 'f', 'l', 'e', 'e', 't', '.', 'c', 'r', 'o', 'n', 't', 'a',
	'b', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Sum computes the crontab-domain BLAKE3 keyed hash of content. The
// publisher logs this digest when it ships a definition and the
// reconciler logs it when it installs one, so a deployment can be
// traced from build pipeline to any host by matching digests.
func Sum(content []byte) Digest {
	hasher, err := blake3.NewKeyed(crontabDomainKey[:])
	if err != nil {
		// NewKeyed only fails on a key that is not 32 bytes; the key
		// is a fixed 32-byte constant.
		panic("contenthash: keyed hasher initialization failed: " + err.Error())
	}
	hasher.Write(content)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// String returns the full hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex characters of the digest, the form
// used in log output.
func (d Digest) Short() string {
	return d.String()[:12]
}
