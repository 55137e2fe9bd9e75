package surface

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func goldenFrame() *Frame {
	f := NewFrame()
	f.SetHeader("a.txt")
	f.Attach(5).Append("hello\nworld")
	return f
}

func TestFrame_Golden_Rounded(t *testing.T) {
	teatest.RequireEqualOutput(t, []byte(goldenFrame().View()))
}

func TestFrame_Golden_Stripped(t *testing.T) {
	f := goldenFrame()
	f.StripChrome()

	teatest.RequireEqualOutput(t, []byte(f.View()))
}
