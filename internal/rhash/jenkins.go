// Package rhash provides the content fingerprints used to identify chunks
// of the old and new sequences: a Jenkins one-at-a-time hash and an
// Adler-32 checksum.
package rhash

import "io"

// Jenkins32 computes the Jenkins one-at-a-time hash of exactly n bytes
// read from r. The result depends only on those n byte values, not on
// any surrounding context, and is stable across platforms and
// invocations.
//
// Reference fingerprints:
//
//	Jenkins32(strings.NewReader("Wikipedia"), 9) == 0x2eb8e7cd
//	Jenkins32(strings.NewReader("The quick brown fox jumps over the lazy dog"), 43) == 0x519e91f5
//
// This hash is not rolling: callers that need to fingerprint a sliding
// window must call Jenkins32 again for every new window position. See
// internal/rdelta's synthesizer for the consequence of that.
func Jenkins32(r io.Reader, n int64) (uint32, error) {
	var hash uint32

	buf := make([]byte, 4096)
	var remaining = n
	for remaining > 0 {
		chunk := int64(len(buf))
		if remaining < chunk {
			chunk = remaining
		}
		read, err := io.ReadFull(r, buf[:chunk])
		if err != nil {
			return 0, err
		}
		for _, b := range buf[:read] {
			hash += uint32(b)
			hash += hash << 10
			hash ^= hash >> 6
		}
		remaining -= int64(read)
	}

	hash += hash << 3
	hash ^= hash >> 11
	hash += hash << 15

	return hash, nil
}

// Jenkins32Bytes is a convenience wrapper around Jenkins32 for data
// already held in memory.
func Jenkins32Bytes(data []byte) uint32 {
	var hash uint32
	for _, b := range data {
		hash += uint32(b)
		hash += hash << 10
		hash ^= hash >> 6
	}
	hash += hash << 3
	hash ^= hash >> 11
	hash += hash << 15
	return hash
}
