// Package repository implements the data-access layer over MySQL. Every
// query is scoped by the owning user's id (the tenant); no method lets a
// caller address rows belonging to a different account. Sentinel errors let
// handlers map failure scenarios to HTTP statuses without inspecting SQL
// error strings.
package repository

import "errors"

// ErrNotFound is returned when a tenant-scoped lookup matches no rows.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
