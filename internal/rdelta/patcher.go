package rdelta

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Patch reconstructs the new sequence by applying d's instructions
// against old, writing the result to out in order. old must support
// reading an arbitrary COPY_CHUNK range without disturbing any other
// range (RandomAccessSource); it is never required to be fully
// memory-resident.
//
// Patch does not consult a Signature: d carries every old-side offset it
// needs.
func Patch(ctx context.Context, logger zerolog.Logger, old RandomAccessSource, d *Delta, out io.Writer) error {
	buf := make([]byte, 0, 64*1024)

	for i, inst := range d.Instructions {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		switch inst.Type {
		case InstructionCopyData:
			if _, err := out.Write(inst.Data); err != nil {
				return fmt.Errorf("rdelta: writing COPY_DATA instruction %d: %w", i, err)
			}

		case InstructionCopyChunk:
			if uint64(cap(buf)) < inst.DataLength {
				buf = make([]byte, inst.DataLength)
			} else {
				buf = buf[:inst.DataLength]
			}
			if _, err := old.ReadAt(buf, int64(inst.StartIndex)); err != nil {
				return fmt.Errorf("rdelta: reading COPY_CHUNK instruction %d at offset %d: %w", i, inst.StartIndex, err)
			}
			if _, err := out.Write(buf); err != nil {
				return fmt.Errorf("rdelta: writing COPY_CHUNK instruction %d: %w", i, err)
			}

		default:
			return fmt.Errorf("%w: %v", ErrUnknownInstruction, inst.Type)
		}

		logger.Debug().
			Int("instruction_index", i).
			Str("type", inst.Type.String()).
			Uint64("length", inst.DataLength).
			Msg("applied instruction")
	}

	return nil
}
