package rdelta

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog"

	"github.com/prn-tf/deltasync/internal/rhash"
)

// Synthesize is the core delta algorithm (spec.md §4.3): a single-pass
// matcher over src that emits a minimal COPY_DATA/COPY_CHUNK instruction
// stream reconstructing the new sequence described by length from sig's
// old sequence. Signature chunk lengths are tried longest-first at every
// candidate offset, so a longer match is always preferred over a
// shorter one at the same position.
//
// Matching is by content hash alone. Two signature chunks sharing a hash
// (first-insertion wins when building the lookup index) or a candidate
// window colliding with an unrelated chunk's hash are indistinguishable
// to this algorithm. This is an explicit, inherited design choice
// (spec.md §9), not an oversight: verifying byte-for-byte equality after
// a hash hit would change performance characteristics without changing
// any reference fingerprint or emitted-delta shape on collision-free
// inputs.
func Synthesize(ctx context.Context, logger zerolog.Logger, sig *Signature, src ForwardSource, length int64) (*Delta, error) {
	if len(sig.Chunks) == 0 {
		return nil, ErrEmptySignature
	}
	if length == 0 {
		return &Delta{}, nil
	}

	chunkByHash := make(map[uint32]Chunk, len(sig.Chunks))
	idByHash := make(map[uint32]uint64, len(sig.Chunks))
	lengthSet := make(map[uint64]struct{})
	for i, c := range sig.Chunks {
		if _, exists := chunkByHash[c.Hash]; !exists {
			chunkByHash[c.Hash] = c
			idByHash[c.Hash] = uint64(i)
		}
		lengthSet[c.Length] = struct{}{}
	}

	lengths := make([]uint64, 0, len(lengthSet))
	for l := range lengthSet {
		lengths = append(lengths, l)
	}
	sort.Slice(lengths, func(i, j int) bool { return lengths[i] > lengths[j] })
	lMax := int64(lengths[0])
	lMin := int64(lengths[len(lengths)-1])

	// buf holds the sliding window of the new sequence. buf[i]
	// corresponds to absolute new-sequence offset bufBase+i.
	var buf []byte
	var bufBase int64
	var srcExhausted bool

	fill := func(upTo int64) error {
		if upTo > length {
			upTo = length
		}
		need := upTo - (bufBase + int64(len(buf)))
		if need <= 0 || srcExhausted {
			return nil
		}
		grown := make([]byte, need)
		read, err := io.ReadFull(src, grown)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return fmt.Errorf("rdelta: reading new sequence at offset %d: %w", bufBase+int64(len(buf)), err)
		}
		buf = append(buf, grown[:read]...)
		if int64(read) < need {
			srcExhausted = true
		}
		return nil
	}

	trim := func(toAbsolute int64) {
		drop := toAbsolute - bufBase
		if drop <= 0 {
			return
		}
		if drop > int64(len(buf)) {
			drop = int64(len(buf))
		}
		buf = buf[drop:]
		bufBase += drop
	}

	window := func(absOffset int64, l int64) ([]byte, bool) {
		start := absOffset - bufBase
		end := start + l
		if start < 0 || end > int64(len(buf)) {
			return nil, false
		}
		return buf[start:end], true
	}

	if err := fill(lMax * 2); err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, ErrEmptySource
	}

	var dataIndex, chunkIndex int64
	result := &Delta{}

	flush := func(upTo int64) error {
		if dataIndex >= upTo {
			return nil
		}
		w, ok := window(dataIndex, upTo-dataIndex)
		if !ok {
			return fmt.Errorf("%w: flushing [%d,%d)", ErrTruncatedSource, dataIndex, upTo)
		}
		data := make([]byte, len(w))
		copy(data, w)
		inst := Instruction{
			Type:       InstructionCopyData,
			StartIndex: uint64(dataIndex),
			DataLength: uint64(len(data)),
			Data:       data,
		}
		result.Instructions = append(result.Instructions, inst)
		result.DataLength += inst.DataLength
		dataIndex = upTo
		return nil
	}

	for dataIndex < length {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if chunkIndex+lMin > length {
			if err := fill(length); err != nil {
				return nil, err
			}
			if err := flush(length); err != nil {
				return nil, err
			}
			break
		}

		matched := false
		for _, ul := range lengths {
			l := int64(ul)
			if chunkIndex+l > length {
				continue
			}
			if err := fill(chunkIndex + l); err != nil {
				return nil, err
			}
			w, ok := window(chunkIndex, l)
			if !ok {
				return nil, fmt.Errorf("%w: matching at %d", ErrTruncatedSource, chunkIndex)
			}
			h := rhash.Jenkins32Bytes(w)
			candidate, found := chunkByHash[h]
			if !found {
				continue
			}

			if err := flush(chunkIndex); err != nil {
				return nil, err
			}

			inst := Instruction{
				Type:       InstructionCopyChunk,
				StartIndex: candidate.StartPosition,
				ChunkID:    idByHash[h],
				DataLength: candidate.Length,
			}
			result.Instructions = append(result.Instructions, inst)
			result.DataLength += inst.DataLength

			chunkIndex += int64(candidate.Length)
			dataIndex = chunkIndex
			trim(dataIndex)
			if err := fill(chunkIndex + lMax); err != nil {
				return nil, err
			}

			logger.Debug().
				Int64("old_offset", int64(inst.StartIndex)).
				Uint64("chunk_id", inst.ChunkID).
				Uint64("length", inst.DataLength).
				Msg("matched chunk")

			matched = true
			break
		}

		if matched {
			continue
		}

		chunkIndex++
		if chunkIndex-bufBase >= lMax {
			if err := flush(chunkIndex); err != nil {
				return nil, err
			}
			trim(dataIndex)
			if err := fill(chunkIndex + lMax); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}
