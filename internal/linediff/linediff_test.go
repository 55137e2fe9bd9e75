package linediff

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func countLines(text string) int {
	n := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

func TestLines(t *testing.T) {
	tests := []struct {
		name   string
		before string
		after  string
		want   Stat
	}{
		{name: "unchanged", before: "a\nb\n", after: "a\nb\n", want: Stat{}},
		{name: "append", before: "a\n", after: "a\nb\nc\n", want: Stat{Added: 2}},
		{name: "delete", before: "a\nb\nc\n", after: "a\nc\n", want: Stat{Removed: 1}},
		{name: "replace one line", before: "a\nb\nc\n", after: "a\nB\nc\n", want: Stat{Added: 1, Removed: 1}},
		{name: "from empty", before: "", after: "x\ny", want: Stat{Added: 2}},
		{name: "to empty", before: "x\ny\n", after: "", want: Stat{Removed: 2}},
		{name: "trailing newline added", before: "a\nb", after: "a\nb\n", want: Stat{Added: 1, Removed: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lines(tt.before, tt.after))
		})
	}
}

func TestStat_String(t *testing.T) {
	assert.Equal(t, "+3 -1", Stat{Added: 3, Removed: 1}.String())
	assert.True(t, Stat{}.IsZero())
	assert.False(t, Stat{Removed: 1}.IsZero())
}

func TestLines_NetChangeMatchesLineCounts(t *testing.T) {
	line := rapid.SampledFrom([]string{"a\n", "b\n", "c\n", "\n", "tail"})
	text := rapid.Custom(func(t *rapid.T) string {
		return strings.Join(rapid.SliceOfN(line, 0, 20).Draw(t, "lines"), "")
	})
	rapid.Check(t, func(t *rapid.T) {
		before := text.Draw(t, "before")
		after := text.Draw(t, "after")

		st := Lines(before, after)
		if got, want := st.Added-st.Removed, countLines(after)-countLines(before); got != want {
			t.Fatalf("net change %d, want %d (%v)", got, want, st)
		}
		if st.Added > countLines(after) || st.Removed > countLines(before) {
			t.Fatalf("stat %v exceeds line counts", st)
		}
	})
}

func TestSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0o644))

	text, err := Snapshot(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", text)
}

func TestSnapshot_Binary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x00}, 0o644))

	_, err := Snapshot(path)
	require.ErrorIs(t, err, ErrNotText)
}

func TestSnapshot_LargeFileCutMidRune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	data := "x" + strings.Repeat("é", MaxSnapshotBytes/2)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	text, err := Snapshot(path)
	require.NoError(t, err)
	assert.Len(t, text, MaxSnapshotBytes-1)
}

func TestSnapshot_Missing(t *testing.T) {
	_, err := Snapshot(filepath.Join(t.TempDir(), "gone.txt"))
	require.Error(t, err)
}
