// Package api provides the HTTP handlers for the QuizDeck API: review
// sync, due-set and deck reads, and the moderation/authoring surface.
// Handlers decode and validate requests, delegate to the services, and
// map service errors to sanitized HTTP responses.
package api
