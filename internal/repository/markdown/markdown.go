// Package markdown loads recipes from a directory of markdown documents,
// one file per recipe per locale: <root>/<locale>/<slug>.md.
//
// A document is YAML front matter followed by markdown sections:
//
//	---
//	title: Lasagna
//	servings: 4
//	---
//
//	## Ingredients
//	- 200 g pasta
//
//	## Instructions
//	1. Cook the pasta.
//
//	## Sauce
//	slug: sauce
//	@include:base#tomato-sauce
//
// Any second-level heading other than "Ingredients" and "Instructions"
// opens a component. Component sections may carry metadata lines (slug,
// prep/cook/wait minutes, an @include reference) followed by their own
// "### Ingredients" and "### Instructions" subsections.
package markdown

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mberg/souschef/internal/ingredient"
	"github.com/mberg/souschef/internal/models"
	"github.com/mberg/souschef/internal/repository"
)

// Store reads recipes from disk on every lookup; the files are the source
// of truth and stay editable while the process runs.
type Store struct {
	root string
}

// New returns a store rooted at dir.
func New(dir string) *Store {
	return &Store{root: dir}
}

// GetRecipeBySlug implements repository.Repository.
func (s *Store) GetRecipeBySlug(ctx context.Context, slug, locale string) (*models.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !models.ValidSlug(slug) {
		return nil, fmt.Errorf("%q: %w", slug, repository.ErrNotFound)
	}

	path := filepath.Join(s.root, locale, slug+".md")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%q (%s): %w", slug, locale, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read recipe %q: %w", slug, err)
	}

	recipe, err := parseDocument(slug, string(data))
	if err != nil {
		return nil, fmt.Errorf("parse recipe %q: %w", slug, err)
	}
	return recipe, nil
}

var _ repository.Repository = (*Store)(nil)

// frontMatter is the YAML header of a recipe document.
type frontMatter struct {
	Title    string `yaml:"title"`
	Servings int    `yaml:"servings"`
	PrepTime int    `yaml:"prepTime"`
	CookTime int    `yaml:"cookTime"`
	WaitTime int    `yaml:"waitTime"`
}

var (
	includeRe = regexp.MustCompile(`^@include:([a-z0-9]+(?:-[a-z0-9]+)*)#([a-z0-9]+(?:-[a-z0-9]+)*)$`)
	bulletRe  = regexp.MustCompile(`^\s*[-*]\s+`)
	stepRe    = regexp.MustCompile(`^\s*\d+\.\s+`)
)

func parseDocument(slug, doc string) (*models.Recipe, error) {
	header, body, err := splitFrontMatter(doc)
	if err != nil {
		return nil, err
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return nil, fmt.Errorf("front matter: %w", err)
	}
	if fm.Servings <= 0 {
		return nil, fmt.Errorf("front matter: servings must be positive, got %d", fm.Servings)
	}

	recipe := &models.Recipe{
		Slug:     slug,
		Title:    fm.Title,
		Servings: fm.Servings,
	}

	if err := parseBody(recipe, body); err != nil {
		return nil, err
	}

	if len(recipe.Components) > 0 {
		total := 0
		for _, c := range recipe.Components {
			total += c.TotalTime()
		}
		recipe.TotalTime = total
	} else {
		recipe.TotalTime = (models.Component{
			PrepTime: fm.PrepTime, CookTime: fm.CookTime, WaitTime: fm.WaitTime,
		}).TotalTime()
	}

	if len(recipe.Ingredients) == 0 && len(recipe.Instructions) == 0 && len(recipe.Components) == 0 {
		return nil, fmt.Errorf("recipe has neither ingredients nor components")
	}
	return recipe, nil
}

// body parsing is a small line-oriented state machine: which list are we
// in, and are we inside a component section.
type bodySection int

const (
	sectionNone bodySection = iota
	sectionIngredients
	sectionInstructions
)

func parseBody(recipe *models.Recipe, body string) error {
	var current *models.Component
	section := sectionNone

	flush := func() {
		if current != nil {
			recipe.Components = append(recipe.Components, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "### "):
			section = sectionFor(strings.TrimPrefix(trimmed, "### "))

		case strings.HasPrefix(trimmed, "## "):
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "## "))
			if s := sectionFor(name); s != sectionNone {
				flush()
				section = s
				continue
			}
			flush()
			current = &models.Component{Name: name}
			section = sectionNone

		case trimmed == "":

		case current != nil && section == sectionNone:
			if err := componentMeta(current, trimmed); err != nil {
				return err
			}

		case section == sectionIngredients:
			if loc := bulletRe.FindStringIndex(line); loc != nil {
				ing := ingredient.Parse(strings.TrimSpace(line[loc[1]:]))
				if current != nil {
					current.Ingredients = append(current.Ingredients, ing)
				} else {
					recipe.Ingredients = append(recipe.Ingredients, ing)
				}
			}

		case section == sectionInstructions:
			step := trimmed
			if loc := stepRe.FindStringIndex(step); loc != nil {
				step = strings.TrimSpace(step[loc[1]:])
			}
			if current != nil {
				current.Instructions = append(current.Instructions, step)
			} else {
				recipe.Instructions = append(recipe.Instructions, step)
			}
		}
	}
	flush()
	return nil
}

func sectionFor(heading string) bodySection {
	switch strings.ToLower(strings.TrimSpace(heading)) {
	case "ingredients":
		return sectionIngredients
	case "instructions":
		return sectionInstructions
	default:
		return sectionNone
	}
}

// componentMeta parses the metadata lines at the top of a component
// section: slug, timing, and the optional @include reference.
func componentMeta(c *models.Component, line string) error {
	if m := includeRe.FindStringSubmatch(line); m != nil {
		c.Reference = &models.ComponentReference{
			Type:          models.ReferenceComponent,
			RecipeSlug:    m[1],
			ComponentSlug: m[2],
		}
		return nil
	}
	if strings.HasPrefix(line, "@include:") {
		return fmt.Errorf("component %q: malformed include %q", c.Name, line)
	}

	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return fmt.Errorf("component %q: unexpected line %q", c.Name, line)
	}
	value = strings.TrimSpace(value)

	switch strings.ToLower(strings.TrimSpace(key)) {
	case "slug":
		if !models.ValidSlug(value) {
			return fmt.Errorf("component %q: invalid slug %q", c.Name, value)
		}
		c.Slug = value
	case "prep":
		return setMinutes(&c.PrepTime, c.Name, value)
	case "cook":
		return setMinutes(&c.CookTime, c.Name, value)
	case "wait":
		return setMinutes(&c.WaitTime, c.Name, value)
	default:
		return fmt.Errorf("component %q: unknown metadata key %q", c.Name, key)
	}
	return nil
}

func setMinutes(dst *int, component, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fmt.Errorf("component %q: invalid minutes %q", component, value)
	}
	*dst = n
	return nil
}

func splitFrontMatter(doc string) (header, body string, err error) {
	rest, found := strings.CutPrefix(strings.TrimLeft(doc, "\uFEFF\n\r"), "---")
	if !found {
		return "", "", fmt.Errorf("missing front matter")
	}
	parts := strings.SplitN(rest, "\n---", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("unterminated front matter")
	}
	return parts[0], parts[1], nil
}
