// Package tape stores keystroke scripts in a compact msgpack file, so a
// session can be replayed exactly, including ignored and refused keys.
// A tape is input, not history: the calculator never reads or writes one on
// its own.
package tape

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"tally/internal/diag"
	"tally/internal/keys"
	"tally/internal/token"
)

// SchemaVersion is bumped whenever the on-disk layout changes.
const SchemaVersion uint16 = 1

// Ext is the conventional tape file extension.
const Ext = ".tape"

// magic prefixes every tape so text scripts are never mistaken for one.
var magic = []byte("TLYT")

// Tape is a recorded keystroke script.
type Tape struct {
	Schema  uint16    `msgpack:"schema"`
	Created time.Time `msgpack:"created"`
	Label   string    `msgpack:"label,omitempty"`
	Count   uint32    `msgpack:"count"`
	Keys    []Stroke  `msgpack:"keys"`
}

// Stroke is the serialized form of keys.Key.
type Stroke struct {
	Kind uint8 `msgpack:"k"`
	Rune int32 `msgpack:"r,omitempty"`
	Op   uint8 `msgpack:"o,omitempty"`
}

// New builds a tape from keys.
func New(label string, ks []keys.Key) (*Tape, error) {
	count, err := safecast.Conv[uint32](len(ks))
	if err != nil {
		return nil, fmt.Errorf("tape too long: %w", err)
	}
	strokes := make([]Stroke, len(ks))
	for i, k := range ks {
		strokes[i] = Stroke{Kind: uint8(k.Kind), Rune: k.Rune, Op: uint8(k.Op)}
	}
	return &Tape{
		Schema:  SchemaVersion,
		Created: time.Now().UTC(),
		Label:   label,
		Count:   count,
		Keys:    strokes,
	}, nil
}

// KeyList converts the strokes back into keys, validating each one.
func (t *Tape) KeyList() ([]keys.Key, error) {
	out := make([]keys.Key, len(t.Keys))
	for i, s := range t.Keys {
		k := keys.Key{Kind: keys.Kind(s.Kind), Rune: s.Rune, Op: token.Op(s.Op)}
		if !valid(k) {
			return nil, diag.Errorf(diag.IOBadTape, i, "invalid stroke %+v at %d", s, i)
		}
		out[i] = k
	}
	return out, nil
}

func valid(k keys.Key) bool {
	switch k.Kind {
	case keys.Digit:
		return k.Rune >= '0' && k.Rune <= '9'
	case keys.Point:
		return k.Rune == '.'
	case keys.Operator:
		return k.Op >= token.Add && k.Op <= token.Div
	case keys.Clear, keys.Evaluate:
		return true
	}
	return false
}

// Encode writes t to w.
func Encode(w io.Writer, t *Tape) error {
	if _, err := w.Write(magic); err != nil {
		return err
	}
	return msgpack.NewEncoder(w).Encode(t)
}

// Decode reads a tape from r and checks its schema and key count.
func Decode(r io.Reader) (*Tape, error) {
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, diag.Errorf(diag.IOBadTape, diag.NoPos, "short tape header: %v", err)
	}
	if !bytes.Equal(head, magic) {
		return nil, diag.Errorf(diag.IOBadTape, diag.NoPos, "not a tape")
	}
	var t Tape
	if err := msgpack.NewDecoder(r).Decode(&t); err != nil {
		return nil, diag.Errorf(diag.IOBadTape, diag.NoPos, "decode: %v", err)
	}
	if t.Schema != SchemaVersion {
		return nil, diag.Errorf(diag.IOBadTape, diag.NoPos, "schema %d, want %d", t.Schema, SchemaVersion)
	}
	if n, err := safecast.Conv[int](t.Count); err != nil || n != len(t.Keys) {
		return nil, diag.Errorf(diag.IOBadTape, diag.NoPos, "count %d does not match %d keys", t.Count, len(t.Keys))
	}
	return &t, nil
}

// IsTape reports whether data starts with the tape header.
func IsTape(data []byte) bool {
	return bytes.HasPrefix(data, magic)
}

// WriteFile writes t atomically: temp file in the same directory, then rename.
func WriteFile(path string, t *Tape) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*"+Ext)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if _, statErr := os.Stat(tmp); statErr == nil {
			_ = os.Remove(tmp)
		}
	}()

	if err := Encode(f, t); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadFile reads and decodes the tape at path.
func ReadFile(path string) (*Tape, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, diag.Errorf(diag.IOLoadFileError, diag.NoPos, "%s: no such tape", path)
		}
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
