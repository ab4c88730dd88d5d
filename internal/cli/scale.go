package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/mberg/souschef/internal/ingredient"
	"github.com/mberg/souschef/internal/repository/markdown"
	"github.com/mberg/souschef/internal/service"
)

func scaleCmd() *cli.Command {
	return &cli.Command{
		Name:      "scale",
		Usage:     "Materialize a recipe at a given serving count",
		ArgsUsage: "SLUG",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "servings",
				Aliases:  []string{"s"},
				Usage:    "Target serving count",
				Required: true,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			slug := cmd.Args().First()
			if slug == "" {
				return fmt.Errorf("recipe slug is required")
			}

			store := markdown.New(cmd.String("recipes"))
			recipes := service.NewRecipeService(store)

			scaled, err := recipes.GetRecipe(ctx, slug, cmd.String("locale"), cmd.Int("servings"))
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			if cmd.Bool("json") {
				return writeJSON(out, scaled)
			}
			renderRecipe(out, scaled)
			return nil
		},
	}
}

func renderRecipe(w io.Writer, r *service.ScaledRecipe) {
	fmt.Fprintf(w, "%s (serves %d)\n", r.Title, r.TargetServings)
	if r.TotalTime > 0 {
		fmt.Fprintf(w, "Total time: %d min\n", r.TotalTime)
	}
	if len(r.Ingredients) > 0 {
		fmt.Fprintln(w, "\nIngredients:")
		renderIngredients(w, r.Ingredients)
	}
	renderSteps(w, r.Instructions)
	for _, comp := range r.Components {
		fmt.Fprintf(w, "\n## %s\n", comp.Name)
		if len(comp.Ingredients) > 0 {
			renderIngredients(w, comp.Ingredients)
		}
		renderSteps(w, comp.Instructions)
	}
}

func renderIngredients(w io.Writer, ings []ingredient.Scaled) {
	for _, ing := range ings {
		line := ing.Name
		if ing.DisplayQuantity != "" {
			line = ing.DisplayQuantity + " " + line
			if ing.Unit != "" {
				line = ing.DisplayQuantity + " " + ing.Unit + " " + ing.Name
			}
		}
		if ing.Notes != "" {
			line += " (" + ing.Notes + ")"
		}
		fmt.Fprintf(w, "- %s\n", line)
	}
}

func renderSteps(w io.Writer, steps []string) {
	if len(steps) == 0 {
		return
	}
	fmt.Fprintln(w, "\nInstructions:")
	for i, step := range steps {
		fmt.Fprintf(w, "%d. %s\n", i+1, step)
	}
}
