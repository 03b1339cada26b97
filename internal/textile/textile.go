// Package textile converts ANSI-coloured terminal output into Textile
// markup understood by Basecamp comments.
package textile

import (
	"regexp"
	"strings"
)

// Reset closes a colour span.
const Reset = "%"

// sgrPattern matches a Select Graphic Rendition escape sequence: ESC [ params m
var sgrPattern = regexp.MustCompile("\x1b\\[([0-9;]*)m")

// otherEscape matches any remaining CSI sequence so no escape bytes survive.
var otherEscape = regexp.MustCompile("\x1b\\[[0-9;?]*[A-Za-z]")

// colors maps SGR foreground codes to Textile colour names.
var colors = map[string]string{
	"31": "red",
	"32": "green",
	"33": "orange",
	"34": "orange",
}

// ColorSpan opens a Textile colour span.
func ColorSpan(color string) string {
	return "%{color:" + color + "}"
}

// FromANSI rewrites every SGR sequence in s to its Textile token in a
// single pass. Foreground colours open a span, resets close the open span,
// and every other attribute is dropped. Spans are always balanced: a reset
// with no span open emits nothing, and a span still open at the end of s is
// closed.
func FromANSI(s string) string {
	open := false
	out := sgrPattern.ReplaceAllStringFunc(s, func(seq string) string {
		color, reset := parse(sgrPattern.FindStringSubmatch(seq)[1])
		switch {
		case color != "":
			markup := ColorSpan(color)
			if open {
				markup = Reset + markup
			}
			open = true
			return markup
		case reset && open:
			open = false
			return Reset
		default:
			return ""
		}
	})
	if open {
		out += Reset
	}
	return otherEscape.ReplaceAllString(out, "")
}

// parse reads the parameter list of one SGR sequence. For combined
// parameters such as "1;31" the last known colour wins.
func parse(params string) (color string, reset bool) {
	if params == "" {
		return "", true
	}

	for _, p := range strings.Split(params, ";") {
		if p == "0" || p == "" {
			reset = true
			continue
		}
		if c, ok := colors[p]; ok {
			color = c
		}
	}
	return color, reset
}
