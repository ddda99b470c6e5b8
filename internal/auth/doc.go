// Package auth holds the stateless credential primitives of the service:
// bcrypt password digests and HS256 bearer tokens. Both are safe for
// concurrent use and carry no shared mutable state.
package auth
