// Package cli wires the engine into the souschef command line tool.
package cli

import (
	"os"

	"github.com/urfave/cli/v3"
)

// Root builds the souschef command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name:  "souschef",
		Usage: "Parse, scale and combine recipes",
		Description: `souschef works on a directory of markdown recipes laid out as
<dir>/<locale>/<slug>.md. It can parse ingredient lines into structured
records, materialize a recipe at any serving count (resolving cross-recipe
component references), and merge several recipes into one shopping list.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "recipes",
				Aliases: []string{"r"},
				Value:   getEnv("SOUSCHEF_RECIPES", "./recipes"),
				Usage:   "Recipe directory (<dir>/<locale>/<slug>.md)",
			},
			&cli.StringFlag{
				Name:    "locale",
				Aliases: []string{"l"},
				Value:   "en",
				Usage:   "Recipe locale",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit JSON instead of text",
			},
		},
		Commands: []*cli.Command{
			parseCmd(),
			scaleCmd(),
			shoppingCmd(),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
