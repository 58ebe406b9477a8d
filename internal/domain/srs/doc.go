// Package srs implements the SM-2 spaced-repetition scheduling algorithm
// as a pure function over domain.ReviewState. It performs no I/O and
// holds no state; callers (the sync coordinator) persist the results.
package srs
