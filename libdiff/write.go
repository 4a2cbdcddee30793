package libdiff

import (
	"bufio"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Write prints one line per change:
//
//	+ a.b = 1
//	- a.c = x
//	~ a.d: 1 -> 2
//	~ a.e: some [-old-]{+new+} text
func Write(w io.Writer, changes []Change, colorize bool) error {
	add := color.New(color.FgGreen)
	del := color.New(color.FgRed)
	mod := color.New(color.FgYellow)
	for _, c := range []*color.Color{add, del, mod} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	bw := bufio.NewWriter(w)
	for i := range changes {
		c := &changes[i]
		path := c.Path.String()
		if path == "" {
			path = "$"
		}
		switch c.Op {
		case Insert:
			bw.WriteString(add.Sprint("+ " + path + " = " + c.To.Inline()))
		case Delete:
			bw.WriteString(del.Sprint("- " + path + " = " + c.From.Inline()))
		case Replace:
			bw.WriteString(mod.Sprint("~ " + path + ": "))
			if len(c.Edits) == 0 {
				bw.WriteString(c.From.Inline() + " -> " + c.To.Inline())
				break
			}
			for _, e := range c.Edits {
				text := strings.ReplaceAll(e.Text, "\n", `\n`)
				switch e.Op {
				case Add:
					bw.WriteString(add.Sprint("{+" + text + "+}"))
				case Remove:
					bw.WriteString(del.Sprint("[-" + text + "-]"))
				default:
					bw.WriteString(text)
				}
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
