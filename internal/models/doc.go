// Package models defines the core domain values for souschef.
//
// # Models
//
//   - Recipe: one stored recipe with servings, timing and either flat
//     ingredients/instructions or named components
//   - Component: a named sub-recipe ("Sauce") with its own ingredients,
//     instructions and timing
//   - ComponentReference: a component that borrows its content from a
//     component of another recipe (filled in by the resolver)
//   - Ingredient: the structured form of one ingredient line, produced by
//     the parser
//
// # Design Principles
//
//  1. **Value semantics**: every model is a plain value with no shared
//     mutable state; deep copies go through Clone
//  2. **Slugs over pointers**: recipes and components refer to each other by
//     slug strings, never by pointer, so reference graphs stay serializable
//  3. **Optionals as pointers**: absent quantities are nil, not zero; "0 g
//     salt" and "salt" mean different things
//
// Derived, per-request values (scaled ingredients, shopping items) live with
// the packages that compute them, not here.
package models
