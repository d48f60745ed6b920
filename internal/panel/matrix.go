package panel

import (
	"slices"
	"strings"

	"github.com/piwi3910/BoxCut/internal/turtle"
)

// PartsMatrix places n copies of a part in rows of width. part draws one
// copy and must honor the move directive it is given. The directive move
// applies to the matrix as a whole.
func PartsMatrix(t *turtle.Turtle, n, width int, move string, part func(move string) error) error {
	if n <= 0 {
		return nil
	}
	if width <= 0 {
		width = n
	}
	rows := n / width
	if n%width != 0 {
		rows++
	}
	terms := strings.Fields(move)
	repeat := func(times int, m string) error {
		for i := 0; i < times; i++ {
			if err := part(m); err != nil {
				return err
			}
		}
		return nil
	}

	for _, m := range terms {
		switch m {
		case "left":
			if err := repeat(width, "left only"); err != nil {
				return err
			}
		case "down":
			if err := repeat(rows, "down only"); err != nil {
				return err
			}
		}
	}

	only := slices.Contains(terms, "only")
	for i := 0; i < rows; i++ {
		restore := t.Saved()
		for j := 0; j < width && !only && width*i+j < n; j++ {
			if err := part("right"); err != nil {
				restore()
				return err
			}
		}
		restore()
		if err := part("up only"); err != nil {
			return err
		}
	}

	if !slices.Contains(terms, "up") {
		if err := repeat(rows, "down only"); err != nil {
			return err
		}
	}
	if slices.Contains(terms, "right") {
		return repeat(width, "right only")
	}
	return nil
}
