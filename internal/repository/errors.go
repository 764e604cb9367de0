// Package repository contains the MySQL data access layer. Sentinel
// errors defined here let handlers map failures to HTTP statuses without
// inspecting SQL details.
package repository

import "errors"

// ErrForbidden is returned when the caller does not own the resource the
// operation targets. Handlers translate it into a 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation loses against concurrent
// state, such as a guarded status update matching zero rows. Handlers
// translate it into a 409 response.
var ErrConflict = errors.New("conflict")

// ErrEventNotFound indicates that an event lookup yielded no rows.
var ErrEventNotFound = errors.New("event not found")

// ErrTicketNotFound indicates that a ticket lookup yielded no rows.
var ErrTicketNotFound = errors.New("ticket not found")
