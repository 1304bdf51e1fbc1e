package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/prn-tf/deltasync/internal/rdelta"
)

// commandCopyData and commandCopyChunk are the normative wire tags from
// spec.md §6.2.
const (
	commandCopyData  byte = 0x00
	commandCopyChunk byte = 0x01
)

// EncodeDelta writes d to w using the container format of spec.md §6.2:
//
//	data_length       uint64
//	num_instructions  uint64
//	(num_instructions times)
//	  command      byte   (0x00 COPY_DATA, 0x01 COPY_CHUNK)
//	  start_index  uint64
//	  chunk_id     uint64
//	  data_length  uint64
//	  data         data_length bytes if COPY_DATA, else absent
func EncodeDelta(w io.Writer, d *rdelta.Delta) error {
	if err := binary.Write(w, binary.LittleEndian, d.DataLength); err != nil {
		return fmt.Errorf("wire: writing data_length: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(d.Instructions))); err != nil {
		return fmt.Errorf("wire: writing num_instructions: %w", err)
	}

	for i, inst := range d.Instructions {
		var command byte
		switch inst.Type {
		case rdelta.InstructionCopyData:
			command = commandCopyData
		case rdelta.InstructionCopyChunk:
			command = commandCopyChunk
		default:
			return fmt.Errorf("%w: %v", rdelta.ErrUnknownInstruction, inst.Type)
		}

		if _, err := w.Write([]byte{command}); err != nil {
			return fmt.Errorf("wire: writing instruction %d command: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, inst.StartIndex); err != nil {
			return fmt.Errorf("wire: writing instruction %d start_index: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, inst.ChunkID); err != nil {
			return fmt.Errorf("wire: writing instruction %d chunk_id: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, inst.DataLength); err != nil {
			return fmt.Errorf("wire: writing instruction %d data_length: %w", i, err)
		}
		if inst.Type == rdelta.InstructionCopyData {
			if _, err := w.Write(inst.Data); err != nil {
				return fmt.Errorf("wire: writing instruction %d data: %w", i, err)
			}
		}
	}

	return nil
}

// DecodeDelta reads a Delta previously written by EncodeDelta.
func DecodeDelta(r io.Reader) (*rdelta.Delta, error) {
	d := &rdelta.Delta{}

	if err := binary.Read(r, binary.LittleEndian, &d.DataLength); err != nil {
		return nil, fmt.Errorf("wire: reading data_length: %w", err)
	}
	var numInstructions uint64
	if err := binary.Read(r, binary.LittleEndian, &numInstructions); err != nil {
		return nil, fmt.Errorf("wire: reading num_instructions: %w", err)
	}

	d.Instructions = make([]rdelta.Instruction, 0, numInstructions)
	for i := uint64(0); i < numInstructions; i++ {
		var commandByte [1]byte
		if _, err := io.ReadFull(r, commandByte[:]); err != nil {
			return nil, fmt.Errorf("wire: reading instruction %d command: %w", i, err)
		}

		var inst rdelta.Instruction
		switch commandByte[0] {
		case commandCopyData:
			inst.Type = rdelta.InstructionCopyData
		case commandCopyChunk:
			inst.Type = rdelta.InstructionCopyChunk
		default:
			return nil, fmt.Errorf("%w: byte 0x%02x at instruction %d", rdelta.ErrUnknownInstruction, commandByte[0], i)
		}

		if err := binary.Read(r, binary.LittleEndian, &inst.StartIndex); err != nil {
			return nil, fmt.Errorf("wire: reading instruction %d start_index: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &inst.ChunkID); err != nil {
			return nil, fmt.Errorf("wire: reading instruction %d chunk_id: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &inst.DataLength); err != nil {
			return nil, fmt.Errorf("wire: reading instruction %d data_length: %w", i, err)
		}

		if inst.Type == rdelta.InstructionCopyData {
			inst.Data = make([]byte, inst.DataLength)
			if _, err := io.ReadFull(r, inst.Data); err != nil {
				return nil, fmt.Errorf("wire: reading instruction %d data: %w", i, err)
			}
		}

		d.Instructions = append(d.Instructions, inst)
	}

	return d, nil
}
