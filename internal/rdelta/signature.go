package rdelta

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/prn-tf/deltasync/internal/rhash"
)

// BuildSignature walks src in fixed strides of chunkLength, emitting one
// Chunk per stride. length is the total number of bytes src will yield;
// the final chunk's length may be less than chunkLength. A single
// forward pass over src is sufficient; no random access is required.
//
// Grounded on original_source/src/lib/signature.hpp's calculate_signature.
func BuildSignature(ctx context.Context, logger zerolog.Logger, src ForwardSource, length, chunkLength int64) (*Signature, error) {
	if chunkLength <= 0 {
		return nil, ErrZeroChunkLength
	}

	sig := &Signature{}
	if length == 0 {
		return sig, nil
	}

	buf := make([]byte, chunkLength)
	var offset int64
	var sawAnyBytes bool

	for offset < length {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		remaining := length - offset
		want := chunkLength
		if remaining < want {
			want = remaining
		}

		read, err := io.ReadFull(src, buf[:want])
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return nil, fmt.Errorf("rdelta: reading chunk at offset %d: %w", offset, err)
		}
		if read == 0 {
			if !sawAnyBytes {
				return nil, ErrEmptySource
			}
			return nil, fmt.Errorf("%w: expected %d more bytes at offset %d", ErrTruncatedSource, remaining, offset)
		}
		sawAnyBytes = true

		chunk := Chunk{
			StartPosition: uint64(offset),
			Length:        uint64(read),
			Hash:          rhash.Jenkins32Bytes(buf[:read]),
		}
		sig.Chunks = append(sig.Chunks, chunk)

		logger.Debug().
			Int("chunk_index", len(sig.Chunks)-1).
			Uint64("start", chunk.StartPosition).
			Uint64("length", chunk.Length).
			Uint32("hash", chunk.Hash).
			Msg("signature chunk built")

		offset += int64(read)
	}

	return sig, nil
}
