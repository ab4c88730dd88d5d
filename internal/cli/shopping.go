package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/text/language"

	"github.com/mberg/souschef/internal/quantity"
	"github.com/mberg/souschef/internal/repository/markdown"
	"github.com/mberg/souschef/internal/service"
	"github.com/mberg/souschef/internal/shopping"
)

func shoppingCmd() *cli.Command {
	return &cli.Command{
		Name:      "shopping",
		Usage:     "Merge recipes into one shopping list",
		ArgsUsage: "SLUG=SERVINGS [SLUG=SERVINGS...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "payload",
				Usage: "Encoded share payload instead of SLUG=SERVINGS arguments",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			store := markdown.New(cmd.String("recipes"))
			locale := cmd.String("locale")
			lists := service.NewShoppingService(store, collationTag(locale))

			var list *service.List
			var err error
			if payload := cmd.String("payload"); payload != "" {
				list, err = lists.BuildListFromPayload(ctx, locale, payload)
			} else {
				var selections []service.Selection
				selections, err = parseSelections(cmd.Args().Slice())
				if err != nil {
					return err
				}
				list, err = lists.BuildList(ctx, locale, selections)
			}
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			if cmd.Bool("json") {
				return writeJSON(out, list)
			}
			renderList(out, list)
			return nil
		},
	}
}

func parseSelections(args []string) ([]service.Selection, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one SLUG=SERVINGS argument is required")
	}
	selections := make([]service.Selection, 0, len(args))
	for _, arg := range args {
		slug, servings, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid selection %q, expected SLUG=SERVINGS", arg)
		}
		n, err := strconv.Atoi(servings)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid serving count in %q", arg)
		}
		selections = append(selections, service.Selection{Slug: slug, Servings: n})
	}
	return selections, nil
}

func collationTag(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

func renderList(w io.Writer, list *service.List) {
	if list.Title != "" {
		fmt.Fprintf(w, "%s\n\n", list.Title)
	}
	for _, item := range list.Items {
		fmt.Fprintf(w, "- %s\n", describeItem(item))
	}
}

func describeItem(item shopping.Item) string {
	var b strings.Builder
	b.WriteString(item.DisplayName)
	if item.Quantity != nil {
		b.WriteString(": ")
		b.WriteString(quantity.FormatRange(item.Quantity, item.QuantityMax))
		if item.Unit != "" {
			b.WriteString(" ")
			b.WriteString(item.Unit)
		}
	}
	if item.Notes != "" {
		b.WriteString(" (")
		b.WriteString(item.Notes)
		b.WriteString(")")
	}
	slugs := make([]string, len(item.Sources))
	for i, src := range item.Sources {
		slugs[i] = src.Slug
	}
	b.WriteString(" [")
	b.WriteString(strings.Join(slugs, ", "))
	b.WriteString("]")
	return b.String()
}
