// Package rdelta implements the three-phase rsync-style delta algorithm:
// a Signature built from an old byte sequence, a Delta synthesized from
// that Signature plus a new byte sequence, and a Patcher that reproduces
// the new sequence from the old sequence plus the Delta.
package rdelta

// Chunk is one fixed-length (except possibly the last) contiguous span
// of the old sequence, identified by its starting offset and a content
// fingerprint.
type Chunk struct {
	// StartPosition is the byte offset in the old sequence where this
	// chunk begins.
	StartPosition uint64

	// Length is the length of the chunk in bytes.
	Length uint64

	// Hash is the Jenkins one-at-a-time fingerprint of the chunk's
	// content, computed by internal/rhash.
	Hash uint32
}

// Signature is the ordered, contiguous list of Chunks that represents
// the old sequence's coarse content map. A well-formed Signature
// satisfies:
//
//   - chunks[i].StartPosition+chunks[i].Length == chunks[i+1].StartPosition
//   - every chunk except possibly the last has Length == the configured
//     chunk length; the last chunk has Length in [1, chunk length]
//   - chunks[0].StartPosition == 0
//   - the sum of chunk lengths equals the old sequence's total length
type Signature struct {
	Chunks []Chunk
}

// InstructionType distinguishes the two kinds of Delta instruction.
type InstructionType uint8

const (
	// InstructionCopyData appends literal bytes carried inside the
	// delta to the output.
	InstructionCopyData InstructionType = 0x00

	// InstructionCopyChunk copies a range from the old sequence into
	// the output.
	InstructionCopyChunk InstructionType = 0x01
)

// String returns the wire-format command name, matching spec.md's
// COPY_DATA / COPY_CHUNK naming.
func (t InstructionType) String() string {
	switch t {
	case InstructionCopyData:
		return "COPY_DATA"
	case InstructionCopyChunk:
		return "COPY_CHUNK"
	default:
		return "UNKNOWN"
	}
}

// Instruction is one step of a Delta's reconstruction program.
//
// For InstructionCopyData: StartIndex is the position in the new
// sequence where this literal run begins (informational, ignored by the
// patcher); Data holds the DataLength literal bytes to emit.
//
// For InstructionCopyChunk: StartIndex is the offset in the old
// sequence to copy DataLength bytes from, and must equal the
// StartPosition of the signature chunk identified by ChunkID (also
// informational).
type Instruction struct {
	Type       InstructionType
	StartIndex uint64
	ChunkID    uint64
	DataLength uint64
	Data       []byte // only populated for InstructionCopyData
}

// Delta is the ordered instruction stream that reconstructs the new
// sequence from the old sequence.
type Delta struct {
	// DataLength is the total length of the reconstructed new sequence:
	// the sum of every instruction's DataLength.
	DataLength uint64

	Instructions []Instruction
}
