// Package linediff counts added and removed lines between two versions of a
// text file.
package linediff

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// MaxSnapshotBytes caps how much of a file Snapshot keeps.
const MaxSnapshotBytes = 1 << 20

// ErrNotText is returned by Snapshot for files that are not UTF-8.
var ErrNotText = errors.New("linediff: not UTF-8 text")

// Stat is the line-level size of a change.
type Stat struct {
	Added   int
	Removed int
}

// IsZero reports whether nothing changed.
func (s Stat) IsZero() bool { return s.Added == 0 && s.Removed == 0 }

func (s Stat) String() string {
	return fmt.Sprintf("+%d -%d", s.Added, s.Removed)
}

// Lines diffs before and after line by line.
func Lines(before, after string) Stat {
	if before == after {
		return Stat{}
	}
	enc := encoder{index: make(map[string]rune)}
	a, b := enc.runes(before), enc.runes(after)

	dmp := diffmatchpatch.New()
	var st Stat
	for _, d := range dmp.DiffMainRunes(a, b, false) {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			st.Added += n
		case diffmatchpatch.DiffDelete:
			st.Removed += n
		}
	}
	return st
}

// encoder maps each distinct line to one rune so the diff runs per line.
type encoder struct {
	index map[string]rune
}

func (e encoder) runes(text string) []rune {
	out := make([]rune, 0, strings.Count(text, "\n")+1)
	for text != "" {
		line := text
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			line = text[:i+1]
		}
		text = text[len(line):]

		r, ok := e.index[line]
		if !ok {
			r = rune(len(e.index))
			if r >= 0xD800 {
				r += 0x800 // skip surrogates
			}
			e.index[line] = r
		}
		out = append(out, r)
	}
	return out
}

// Snapshot reads up to MaxSnapshotBytes of path as text. A cut never ends
// inside a UTF-8 sequence.
func Snapshot(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is the file being displayed
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, MaxSnapshotBytes))
	if err != nil {
		return "", err
	}
	if len(data) == MaxSnapshotBytes {
		data = trimPartialRune(data)
	}
	if !utf8.Valid(data) {
		return "", ErrNotText
	}
	return string(data), nil
}

func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}
