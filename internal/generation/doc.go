// Package generation defines the boundary to the AI draft-card service.
// The engine consumes it as a black box that returns (front, back) pairs;
// drafts it produces enter the moderation pipeline exactly like
// human-authored cards.
package generation
