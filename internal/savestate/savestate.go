// Package savestate implements the versioned save-state envelope the deck
// uses to serialize and restore a running session. Encoding uses
// encoding/gob: no example in the retrieval pack reaches for a third-party
// binary codec for this kind of internal, same-process-version snapshot,
// and gob's self-describing type stream is a reasonable fit for a struct
// that will gain fields across versions (see DESIGN.md).
package savestate

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gones/internal/apu"
	"gones/internal/cpu"
	"gones/internal/ppu"
)

// magic identifies a gones save state; version is bumped whenever the
// Snapshot struct's shape changes in a way that breaks old decodes.
const (
	magic          = "GNES"
	currentVersion = 1
)

// ErrorKind tags why a save state failed to load.
type ErrorKind uint8

const (
	ErrBadMagic ErrorKind = iota
	ErrIncompatibleVersion
	ErrCorruptBody
)

// Error reports a save-state load failure; the deck guarantees it is left
// in its prior running state whenever one of these is returned.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("savestate: %s", e.Msg) }

// Snapshot is the full serializable state of one running deck session.
type Snapshot struct {
	Region     uint8
	CPUCycles  uint64
	FrameCount uint64

	RAM []uint8
	CPU cpu.State
	PPU ppu.State
	APU apu.State

	PRGRAM   []uint8
	CartHash uint64
}

type envelope struct {
	Magic   [4]byte
	Version uint16
	Body    Snapshot
}

// Encode serializes a snapshot into a versioned, magic-prefixed envelope.
func Encode(snap Snapshot) ([]byte, error) {
	env := envelope{Version: currentVersion, Body: snap}
	copy(env.Magic[:], magic)

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return nil, &Error{Kind: ErrCorruptBody, Msg: err.Error()}
	}
	return buf.Bytes(), nil
}

// Decode validates and parses a save-state envelope. It never returns a
// partially-applied result: either the full Snapshot is returned, or an
// error is, with no side effects either way.
func Decode(data []byte) (Snapshot, error) {
	var env envelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return Snapshot{}, &Error{Kind: ErrCorruptBody, Msg: "malformed save state body: " + err.Error()}
	}
	if string(env.Magic[:]) != magic {
		return Snapshot{}, &Error{Kind: ErrBadMagic, Msg: "not a gones save state"}
	}
	if env.Version != currentVersion {
		return Snapshot{}, &Error{Kind: ErrIncompatibleVersion, Msg: fmt.Sprintf("save state version %d, expected %d", env.Version, currentVersion)}
	}
	return env.Body, nil
}
