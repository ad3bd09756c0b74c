package debugger

import (
	"strconv"
	"strings"

	"github.com/kdschlosser/angry-debugger/debugger/callsite"
	"github.com/kdschlosser/angry-debugger/debugger/goid"
	"github.com/kdschlosser/angry-debugger/debugger/level"
)

// indent aligns record body lines under the header.
const indent = "                          "

const stars = "********************"

// message builds the text of one trace record.
type message struct {
	b strings.Builder
}

// newMessage writes the header, src and dst lines. dst is rendered with
// suffix appended to its name.
func newMessage(lvl level.Level, src, dst callsite.Site, suffix string) *message {
	m := &message{}
	id := goid.ID()
	m.b.WriteString("[" + level.Name(lvl) + "] " + goid.NameOf(id) + "[" + strconv.FormatUint(id, 10) + "]\n")
	m.line("src: " + src.String())
	m.line("dst: " + dst.Name + suffix + " [" + dst.Location() + "]")
	return m
}

func (m *message) line(s string) {
	m.b.WriteString(indent)
	m.b.WriteString(s)
	m.b.WriteByte('\n')
}

// String returns the finished record, terminated by a blank line.
func (m *message) String() string {
	return m.b.String() + "\n"
}

func durationLine(s string) string {
	return indent + "duration: " + s + "\n"
}

func banner(kind, thread string) string {
	return stars + " " + kind + " Logging Run " + thread + " " + stars + "\n"
}
