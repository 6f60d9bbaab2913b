package formatter

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/boshu2/evconsole/internal/status"
)

var badgeColors = map[status.Level]*color.Color{
	status.Good:    color.New(color.FgGreen),
	status.Warn:    color.New(color.FgYellow),
	status.Bad:     color.New(color.FgRed, color.Bold),
	status.Unknown: color.New(color.FgHiBlack),
}

// Badge renders a bracketed, colored status level. Color output is
// disabled automatically when stdout is not a terminal.
func Badge(level status.Level) string {
	c, ok := badgeColors[level]
	if !ok {
		c = badgeColors[status.Unknown]
	}
	return c.Sprintf("[%s]", level)
}

// JSON pretty-prints any value, matching the raw-payload surfaces of the
// console. Marshal failures fall back to fmt.Sprintf, keeping every
// display path total.
func JSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// Card is one label/value display card.
type Card struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Cards writes a set of cards as aligned label/value rows.
func Cards(w io.Writer, cards []Card) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range cards {
		//nolint:errcheck // tabwriter output to stdout
		fmt.Fprintf(tw, "%s\t%s\n", c.Label, c.Value)
	}
	return tw.Flush()
}
