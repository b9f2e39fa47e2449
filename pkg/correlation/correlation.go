// Copyright (c) 2026 Jeremy Hahn
// Copyright (c) 2026 Automate The Things, LLC
//
// This file is part of go-eid.
//
// go-eid is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package correlation assigns an identifier to each authentication attempt
// so log lines and metrics belonging to one attempt can be tied together.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

// AttemptIDKey is the context key for storing attempt IDs
const AttemptIDKey contextKey = "attempt-id"

// WithAttemptID adds an attempt ID to the context.
func WithAttemptID(ctx context.Context, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, AttemptIDKey, id)
}

// GetAttemptID retrieves the attempt ID from context.
// Returns an empty string if no attempt ID is found.
func GetAttemptID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(AttemptIDKey).(string); ok {
		return id
	}
	return ""
}

// NewID generates a new UUID v4 attempt ID.
func NewID() string {
	return uuid.New().String()
}

// GetOrGenerate retrieves an existing attempt ID from context or generates
// a new one if none exists.
func GetOrGenerate(ctx context.Context) string {
	if id := GetAttemptID(ctx); id != "" {
		return id
	}
	return NewID()
}
