// Package sccp implements the Skinny Client Control Protocol (SCCP)
// wire framing shared by every higher-level package in this module.
package sccp

import "errors"

// Protocol-level errors, returned by the framing codec and by the
// session read loop.
var (
	ErrFrameTooShort  = errors.New("sccp: frame header truncated")
	ErrFrameTooLarge  = errors.New("sccp: frame exceeds maximum size")
	ErrFrameTooSmall  = errors.New("sccp: frame payload shorter than message id")
	ErrUnknownMessage = errors.New("sccp: unknown message id")
	ErrOutOfOrder     = errors.New("sccp: message received before registration")
)

// Registration errors.
var (
	ErrUnsupportedDeviceType = errors.New("sccp: unsupported device type")
	ErrUnknownDevice         = errors.New("sccp: device not present in configuration")
	ErrAlreadyRegistered     = errors.New("sccp: device already registered")
)

// IO / resource errors.
var (
	ErrPeerClosed          = errors.New("sccp: peer closed connection")
	ErrAuthTimeout         = errors.New("sccp: device did not complete registration in time")
	ErrKeepaliveTimeout    = errors.New("sccp: keepalive not received in time")
	ErrAllocationFailed    = errors.New("sccp: resource allocation failed")
	ErrUnregisterRequested = errors.New("sccp: device sent UNREGISTER")
)

// Device/line/subchannel state errors.
var (
	ErrNoSuchLineInstance      = errors.New("sccp: no such line instance")
	ErrNoSuchSpeeddialInstance = errors.New("sccp: no such speed-dial instance")
	ErrInvalidTransition       = errors.New("sccp: invalid line state transition")
)
