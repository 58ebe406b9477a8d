// Package service holds errors shared by the application services in its
// subpackages: moderation (card lifecycle), review_sync (offline batch
// application), study (read paths), and auth (token validation).
package service
