package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mberg/souschef/internal/ingredient"
	"github.com/mberg/souschef/internal/models"
	"github.com/mberg/souschef/internal/quantity"
)

func parseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Parse ingredient lines into structured records",
		ArgsUsage: "[file]",
		Description: `Reads ingredient lines from the given file, or from stdin when no
file is given. Markdown bullet lists are recognized; otherwise every
non-empty line is treated as one ingredient.`,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			text, err := readInput(cmd.Args().First())
			if err != nil {
				return err
			}

			parsed := ingredient.ParseMarkdown(text)
			if len(parsed) == 0 {
				parsed = parseLines(text)
			}

			out := cmd.Root().Writer
			if cmd.Bool("json") {
				return writeJSON(out, parsed)
			}
			for _, ing := range parsed {
				fmt.Fprintln(out, describeIngredient(ing))
			}
			return nil
		},
	}
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func parseLines(text string) []models.Ingredient {
	var out []models.Ingredient
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, ingredient.Parse(line))
	}
	return out
}

func describeIngredient(ing models.Ingredient) string {
	var b strings.Builder
	b.WriteString(ing.Name)
	if ing.HasQuantity() {
		b.WriteString(": ")
		b.WriteString(quantity.FormatRange(ing.Quantity, ing.QuantityMax))
		if ing.Unit != "" {
			b.WriteString(" ")
			b.WriteString(ing.Unit)
		}
	}
	if ing.Notes != "" {
		b.WriteString(" (")
		b.WriteString(ing.Notes)
		b.WriteString(")")
	}
	if !ing.Scalable {
		b.WriteString(" [fixed]")
	}
	return b.String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
