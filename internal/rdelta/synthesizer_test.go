package rdelta

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSig(t *testing.T, old []byte, chunkLength int64) *Signature {
	t.Helper()
	sig, err := BuildSignature(context.Background(), zerolog.Nop(), bytes.NewReader(old), int64(len(old)), chunkLength)
	require.NoError(t, err)
	return sig
}

func synth(t *testing.T, sig *Signature, newData []byte) *Delta {
	t.Helper()
	d, err := Synthesize(context.Background(), zerolog.Nop(), sig, bytes.NewReader(newData), int64(len(newData)))
	require.NoError(t, err)
	return d
}

func reconstruct(t *testing.T, old []byte, d *Delta) []byte {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, Patch(context.Background(), zerolog.Nop(), bytes.NewReader(old), d, &out))
	return out.Bytes()
}

// Scenario A of spec.md §8: identity delta. The seven blocks are
// distinct, since chunks sharing a hash all resolve to the first of them.
func TestSynthesize_Identity(t *testing.T) {
	old := makeDistinctBlocks(7, 100)
	sig := buildSig(t, old, 100)

	d := synth(t, sig, old)
	require.Len(t, d.Instructions, 7)

	for i, inst := range d.Instructions {
		assert.Equal(t, InstructionCopyChunk, inst.Type)
		assert.EqualValues(t, i, inst.ChunkID)
		assert.EqualValues(t, 100, inst.DataLength)
	}
	assert.EqualValues(t, 700, d.DataLength)
	assert.Equal(t, old, reconstruct(t, old, d))
}

// Scenario D of spec.md §8: no chunk-aligned content matches.
func TestSynthesize_FullLiteral(t *testing.T) {
	old := bytes.Repeat([]byte("A"), 700)
	sig := buildSig(t, old, 100)

	newData := bytes.Repeat([]byte("Z"), 321)
	d := synth(t, sig, newData)

	for _, inst := range d.Instructions {
		assert.Equal(t, InstructionCopyData, inst.Type)
	}
	assert.EqualValues(t, len(newData), d.DataLength)
	assert.Equal(t, newData, reconstruct(t, old, d))
}

// Scenario E of spec.md §8: a single-byte change inside one chunk
// forces that chunk to COPY_DATA while its neighbors stay COPY_CHUNK.
func TestSynthesize_SingleByteModification(t *testing.T) {
	old := makeDistinctBlocks(7, 100)
	sig := buildSig(t, old, 100)

	newData := append([]byte(nil), old...)
	newData[250] ^= 0xFF // flip a byte inside chunk index 2 (bytes [200,300))

	d := synth(t, sig, newData)

	// Walk instructions in order, tracking coverage of the newData sequence.
	var offset int64
	for _, inst := range d.Instructions {
		switch inst.Type {
		case InstructionCopyChunk:
			// any chunk covering [200,300) must not appear as COPY_CHUNK
			start := int64(offset)
			end := start + int64(inst.DataLength)
			overlapsModified := start < 300 && end > 200
			assert.False(t, overlapsModified, "modified region must not be copied verbatim")
		}
		offset += int64(inst.DataLength)
	}

	assert.Equal(t, newData, reconstruct(t, old, d))
}

// Scenario C of spec.md §8: multi-change reordering with a known
// expected instruction shape.
func TestSynthesize_MultiChangeReordering(t *testing.T) {
	old := makeDistinctBlocks(6, 100)
	old = append(old, bytes.Repeat([]byte{'g'}, 50)...) // 7th chunk, 50 bytes, id=6

	sig := buildSig(t, old, 100)
	require.Len(t, sig.Chunks, 7)

	lit := func(n int, tag byte) []byte { return bytes.Repeat([]byte{tag}, n) }

	var newData bytes.Buffer
	newData.Write(lit(100, 0x01))
	newData.Write(lit(5, 0x02))
	newData.Write(old[100:200])
	newData.Write(old[300:400])
	newData.Write(old[400:500])
	newData.Write(lit(5, 0x03))
	newData.Write(old[600:650])
	newData.Write(old[200:300])
	newData.Write(old[500:600])
	newData.Write(lit(5, 0x04))

	d := synth(t, sig, newData.Bytes())

	require.Len(t, d.Instructions, 10)

	wantTypes := []InstructionType{
		InstructionCopyData, InstructionCopyData,
		InstructionCopyChunk, InstructionCopyChunk, InstructionCopyChunk,
		InstructionCopyData,
		InstructionCopyChunk, InstructionCopyChunk, InstructionCopyChunk,
		InstructionCopyData,
	}
	wantChunkIDs := map[int]uint64{2: 1, 3: 3, 4: 4, 6: 6, 7: 2, 8: 5}
	wantLengths := []uint64{100, 5, 100, 100, 100, 5, 50, 100, 100, 5}

	for i, inst := range d.Instructions {
		assert.Equalf(t, wantTypes[i], inst.Type, "instruction %d type", i)
		assert.Equalf(t, wantLengths[i], inst.DataLength, "instruction %d length", i)
		if id, ok := wantChunkIDs[i]; ok {
			assert.Equalf(t, id, inst.ChunkID, "instruction %d chunk id", i)
		}
	}

	assert.EqualValues(t, 665, d.DataLength)
	assert.Equal(t, newData.Bytes(), reconstruct(t, old, d))
}

func TestSynthesize_EmptySignature(t *testing.T) {
	_, err := Synthesize(context.Background(), zerolog.Nop(), &Signature{}, bytes.NewReader([]byte("x")), 1)
	assert.ErrorIs(t, err, ErrEmptySignature)
}

func TestSynthesize_ZeroLengthNew(t *testing.T) {
	sig := buildSig(t, bytes.Repeat([]byte("A"), 100), 100)
	d, err := Synthesize(context.Background(), zerolog.Nop(), sig, bytes.NewReader(nil), 0)
	require.NoError(t, err)
	assert.Empty(t, d.Instructions)
	assert.EqualValues(t, 0, d.DataLength)
}

// Property 7 of spec.md §8: no COPY_DATA instruction carries more than
// Lmax bytes, except possibly a trailing instruction which may reach
// Lmax+Lmin-1.
func TestSynthesize_InstructionPayloadBound(t *testing.T) {
	old := makeDistinctBlocks(4, 100)
	sig := buildSig(t, old, 100)

	newData := bytes.Repeat([]byte{0xEE}, 437) // no matches anywhere
	d := synth(t, sig, newData)

	for i, inst := range d.Instructions {
		if inst.Type != InstructionCopyData {
			continue
		}
		isLast := i == len(d.Instructions)-1
		if isLast {
			assert.LessOrEqual(t, inst.DataLength, uint64(100+100-1))
		} else {
			assert.LessOrEqual(t, inst.DataLength, uint64(100))
		}
	}
}

// makeDistinctBlocks returns count*blockLen bytes where each block is a
// uniform run of a distinct byte value, so no two blocks can collide
// under the chunk hasher by construction.
func makeDistinctBlocks(count, blockLen int) []byte {
	out := make([]byte, 0, count*blockLen)
	for i := 0; i < count; i++ {
		out = append(out, bytes.Repeat([]byte{byte('a' + i)}, blockLen)...)
	}
	return out
}
