package rdelta

import "errors"

// Errors the core distinguishes, grounded on the teacher's sentinel-error
// convention (internal/storage/errors.go in the teacher repo).
var (
	// ErrZeroChunkLength is returned when a Signature is requested with
	// a chunk length of zero.
	ErrZeroChunkLength = errors.New("rdelta: chunk length must be greater than zero")

	// ErrEmptySource is returned when a forward source yields no bytes
	// but the caller declared a non-zero length.
	ErrEmptySource = errors.New("rdelta: input source yielded no bytes for a non-zero length")

	// ErrEmptySignature is returned when the delta synthesizer is given
	// a signature with no chunks.
	ErrEmptySignature = errors.New("rdelta: signature has no chunks")

	// ErrUnknownInstruction is returned by the patcher when it
	// encounters an instruction with an unrecognized command tag.
	ErrUnknownInstruction = errors.New("rdelta: unknown instruction command")

	// ErrTruncatedSource is returned when a forward or random-access
	// source yields fewer bytes than a declared or required length.
	ErrTruncatedSource = errors.New("rdelta: source truncated before expected length")
)
