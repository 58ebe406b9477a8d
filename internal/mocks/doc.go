// Package mocks provides centralized mock implementations for testing.
//
// Each mock implements an application interface with function fields for
// its methods, so tests configure only the behavior they exercise
// instead of defining inline mocks per test file.
package mocks
