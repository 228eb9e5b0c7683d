// Copyright 2025 The reqx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"context"
	"errors"
	"net"
	"syscall"
)

// A Kind is the failure category of a transport error, as reported by
// Categorize.
//
// The kind None means the error is nil. All other kinds describe a
// failed attempt; Timeout and Connect both carry good retry prospects,
// while Other covers protocol-level failures whose retry prospects
// depend on the remote service.
type Kind int

const (
	// None indicates a nil error.
	None Kind = iota
	// Timeout indicates the attempt's deadline fired, either through
	// the per-attempt context or a lower-level I/O timeout. The server
	// may be going through a temporary period of slowness, or a future
	// attempt with a larger budget may succeed.
	//
	// Categorize returns Timeout if the error is, or wraps,
	// context.DeadlineExceeded, or if the error or any of its wrapped
	// causes has a Timeout() method that reports true.
	Timeout
	// Connect indicates a connection-level failure: DNS resolution
	// failed, the dial failed, or the remote host refused or reset the
	// connection.
	//
	// DNS, dial, and refused-connection failures guarantee that no
	// request reached the server. A reset is reported as Connect
	// wherever it occurs, including after the request was written, so
	// a Connect error alone does not prove the request was never
	// delivered.
	Connect
	// Other indicates any other transport-level error, for example a
	// malformed response or a connection closed mid-exchange without a
	// reset.
	Other
)

// Categorize returns the failure category of the given error. A nil
// error produces None; every non-nil error produces one of Timeout,
// Connect, or Other.
//
// In assessing the category, Categorize looks at wrapped cause errors
// contained within err, not just err itself. Timeout takes precedence
// over Connect when an error somehow carries both signals, mirroring
// the order a dial timeout is most usefully treated in.
func Categorize(err error) Kind {
	if err == nil {
		return None
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}
	var timeout hasTimeout
	if errors.As(err, &timeout) && timeout.Timeout() {
		return Timeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return Connect
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return Connect
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNREFUSED || errno == syscall.ECONNRESET {
			return Connect
		}
	}

	return Other
}

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Timeout:
		return "timeout"
	case Connect:
		return "connect_error"
	default:
		return "transport_error"
	}
}

type hasTimeout interface {
	Timeout() bool
}
