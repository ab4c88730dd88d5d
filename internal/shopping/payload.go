package shopping

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/mberg/souschef/internal/models"
)

// PayloadRecipe is one recipe selection inside a shared list payload.
type PayloadRecipe struct {
	Slug     string `json:"slug"`
	Servings int    `json:"servings"`
}

// ListPayload is the shareable form of a shopping list: which recipes, at
// which serving counts, under what title. On the wire it is URL-escaped
// base64 of UTF-8 JSON.
type ListPayload struct {
	Title   string          `json:"title"`
	Recipes []PayloadRecipe `json:"recipes"`
}

// EncodePayload renders the payload for embedding in a URL.
func EncodePayload(p ListPayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return url.QueryEscape(base64.StdEncoding.EncodeToString(data)), nil
}

// DecodePayload parses an encoded payload and validates its selections.
func DecodePayload(encoded string) (ListPayload, error) {
	var p ListPayload

	unescaped, err := url.QueryUnescape(strings.TrimSpace(encoded))
	if err != nil {
		return p, fmt.Errorf("decode payload: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(unescaped)
	if err != nil {
		return p, fmt.Errorf("decode payload: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("decode payload: %w", err)
	}

	if len(p.Recipes) == 0 {
		return p, fmt.Errorf("decode payload: no recipes")
	}
	for _, r := range p.Recipes {
		if !models.ValidSlug(r.Slug) {
			return p, fmt.Errorf("decode payload: invalid recipe slug %q", r.Slug)
		}
		if r.Servings <= 0 {
			return p, fmt.Errorf("decode payload: recipe %q has non-positive servings %d", r.Slug, r.Servings)
		}
	}
	return p, nil
}
