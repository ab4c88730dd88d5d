package shopping

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPayloadRoundTrip(t *testing.T) {
	p := ListPayload{
		Title: "Weekend dinner",
		Recipes: []PayloadRecipe{
			{Slug: "carbonara", Servings: 4},
			{Slug: "apple-pie", Servings: 8},
		},
	}

	encoded, err := EncodePayload(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodePayload(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(p, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{name: "not base64", encoded: "%%%"},
		{name: "not json", encoded: "bm90IGpzb24="},
		{name: "empty recipes", encoded: mustEncode(t, ListPayload{Title: "x"})},
		{name: "bad slug", encoded: mustEncode(t, ListPayload{Recipes: []PayloadRecipe{{Slug: "Not A Slug", Servings: 2}}})},
		{name: "zero servings", encoded: mustEncode(t, ListPayload{Recipes: []PayloadRecipe{{Slug: "ok", Servings: 0}}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePayload(tt.encoded); err == nil {
				t.Error("expected error, got none")
			}
		})
	}
}

func mustEncode(t *testing.T, p ListPayload) string {
	t.Helper()
	encoded, err := EncodePayload(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return encoded
}
