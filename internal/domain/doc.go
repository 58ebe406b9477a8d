// Package domain contains the core business entities, value objects, and
// domain logic of the application: decks, cards, per-learner review state,
// and the authenticated principal. It is independent of any specific
// infrastructure or delivery mechanism; scheduling math lives in the srs
// subpackage and persistence behind the store interfaces.
package domain
