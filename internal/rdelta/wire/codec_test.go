package wire

import (
	"bytes"
	"testing"

	"github.com/prn-tf/deltasync/internal/rdelta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Universal Property 1 of spec.md §8: deserialize(serialize(sig)) == sig.
func TestSignatureRoundTrip(t *testing.T) {
	sig := &rdelta.Signature{
		Chunks: []rdelta.Chunk{
			{StartPosition: 0, Length: 100, Hash: 0x2eb8e7cd},
			{StartPosition: 100, Length: 100, Hash: 0x519e91f5},
			{StartPosition: 200, Length: 50, Hash: 0x00000001},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeSignature(&buf, sig))

	got, err := DecodeSignature(&buf)
	require.NoError(t, err)
	assert.Equal(t, sig, got)
}

func TestSignatureRoundTrip_Empty(t *testing.T) {
	sig := &rdelta.Signature{}

	var buf bytes.Buffer
	require.NoError(t, EncodeSignature(&buf, sig))

	got, err := DecodeSignature(&buf)
	require.NoError(t, err)
	assert.Empty(t, got.Chunks)
}

// Universal Property 2 of spec.md §8: deserialize(serialize(delta)) == delta.
func TestDeltaRoundTrip(t *testing.T) {
	d := &rdelta.Delta{
		DataLength: 15,
		Instructions: []rdelta.Instruction{
			{Type: rdelta.InstructionCopyData, DataLength: 5, Data: []byte("hello")},
			{Type: rdelta.InstructionCopyChunk, ChunkID: 3, StartIndex: 5, DataLength: 10},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeDelta(&buf, d))

	got, err := DecodeDelta(&buf)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestDeltaRoundTrip_Empty(t *testing.T) {
	d := &rdelta.Delta{}

	var buf bytes.Buffer
	require.NoError(t, EncodeDelta(&buf, d))

	got, err := DecodeDelta(&buf)
	require.NoError(t, err)
	assert.Empty(t, got.Instructions)
	assert.EqualValues(t, 0, got.DataLength)
}

func TestDeltaRoundTrip_CopyChunkCarriesNoData(t *testing.T) {
	d := &rdelta.Delta{
		DataLength: 100,
		Instructions: []rdelta.Instruction{
			{Type: rdelta.InstructionCopyChunk, ChunkID: 0, StartIndex: 0, DataLength: 100},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, EncodeDelta(&buf, d))

	got, err := DecodeDelta(&buf)
	require.NoError(t, err)
	assert.Nil(t, got.Instructions[0].Data)
}

func TestDecodeDelta_UnknownCommandByte(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{1, 0, 0, 0, 0, 0, 0, 0}) // data_length=1
	buf.Write([]byte{1, 0, 0, 0, 0, 0, 0, 0}) // num_instructions=1
	buf.WriteByte(0xFF)                       // unrecognized command

	_, err := DecodeDelta(&buf)
	assert.ErrorIs(t, err, rdelta.ErrUnknownInstruction)
}

func TestDecodeSignature_TruncatedStream(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{2, 0, 0, 0, 0, 0, 0, 0}) // num_chunks=2, but no chunk data follows

	_, err := DecodeSignature(&buf)
	assert.Error(t, err)
}
