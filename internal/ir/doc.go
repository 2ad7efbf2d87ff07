// Package ir provides the canonical data model shared by every herald package.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Field values are IRValue: no float types anywhere, use int64 for numbers
//   - Effect and ApplyTranscript are immutable once built
//   - All JSON tags use snake_case
//   - Content-addressed IDs use RFC 8785 canonical JSON and SHA-256
package ir
