// Package wire implements the bit-exact binary container formats for
// Signature and Delta defined in spec.md §6. All integers are
// little-endian and fixed-width, resolving spec.md §6's "host size_t"
// open question in favor of portability over byte-compatibility with
// the original 64-bit-host-native format.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/prn-tf/deltasync/internal/rdelta"
)

// EncodeSignature writes sig to w using the container format of
// spec.md §6.1:
//
//	num_chunks    uint64
//	(num_chunks times)
//	  start_position uint64
//	  length         uint64
//	  hash           uint32
func EncodeSignature(w io.Writer, sig *rdelta.Signature) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(len(sig.Chunks))); err != nil {
		return fmt.Errorf("wire: writing num_chunks: %w", err)
	}
	for i, c := range sig.Chunks {
		if err := binary.Write(w, binary.LittleEndian, c.StartPosition); err != nil {
			return fmt.Errorf("wire: writing chunk %d start_position: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, c.Length); err != nil {
			return fmt.Errorf("wire: writing chunk %d length: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, c.Hash); err != nil {
			return fmt.Errorf("wire: writing chunk %d hash: %w", i, err)
		}
	}
	return nil
}

// DecodeSignature reads a Signature previously written by EncodeSignature.
func DecodeSignature(r io.Reader) (*rdelta.Signature, error) {
	var numChunks uint64
	if err := binary.Read(r, binary.LittleEndian, &numChunks); err != nil {
		return nil, fmt.Errorf("wire: reading num_chunks: %w", err)
	}

	sig := &rdelta.Signature{Chunks: make([]rdelta.Chunk, 0, numChunks)}
	for i := uint64(0); i < numChunks; i++ {
		var c rdelta.Chunk
		if err := binary.Read(r, binary.LittleEndian, &c.StartPosition); err != nil {
			return nil, fmt.Errorf("wire: reading chunk %d start_position: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &c.Length); err != nil {
			return nil, fmt.Errorf("wire: reading chunk %d length: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &c.Hash); err != nil {
			return nil, fmt.Errorf("wire: reading chunk %d hash: %w", i, err)
		}
		sig.Chunks = append(sig.Chunks, c)
	}
	return sig, nil
}
