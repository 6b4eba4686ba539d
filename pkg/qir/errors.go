// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package qir

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for graph construction and protocol dispatch. All are
// raised eagerly at the call that caused them; none are transient.
var (
	// ErrInvalidRegister indicates a register declaration is malformed
	// (empty name, non-positive bitsize, non-positive shape dimension).
	ErrInvalidRegister = errors.New("invalid register")

	// ErrDuplicateRegister indicates a signature declares the same name
	// twice on one boundary.
	ErrDuplicateRegister = errors.New("duplicate register name")

	// ErrUnknownRegister indicates a binding named a register the target
	// signature does not declare.
	ErrUnknownRegister = errors.New("unknown register")

	// ErrMissingRegister indicates a required register was left unbound in
	// an Add call.
	ErrMissingRegister = errors.New("missing register binding")

	// ErrBitsizeMismatch indicates a soquet's element bitsize differs from
	// the register it was bound to.
	ErrBitsizeMismatch = errors.New("bitsize mismatch")

	// ErrShapeMismatch indicates a soquet array's shape differs from the
	// register it was bound to.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrSoquetConsumed indicates a soquet was used as an input twice.
	ErrSoquetConsumed = errors.New("soquet already consumed")

	// ErrForeignSoquet indicates a soquet was not produced by this builder.
	ErrForeignSoquet = errors.New("soquet does not belong to this builder")

	// ErrUnconsumedSoquet indicates finalize found a produced soquet that
	// was never consumed.
	ErrUnconsumedSoquet = errors.New("unconsumed soquet at finalize")

	// ErrUnboundRegister indicates finalize was not given a binding for a
	// right-boundary register.
	ErrUnboundRegister = errors.New("right register left unbound")

	// ErrMalformedGraph indicates a composite violates a structural
	// invariant (missing or doubled connection, dangling endpoint).
	ErrMalformedGraph = errors.New("malformed composite graph")

	// ErrGraphCycle indicates the connection set is not acyclic.
	ErrGraphCycle = errors.New("connection graph has a cycle")

	// ErrNotDecomposable is the expected terminal signal for atomic leaf
	// operations. Callers walking decompositions to leaves must treat it as
	// "stop here", not as a failure.
	ErrNotDecomposable = errors.New("operation does not decompose")

	// ErrProtocolUnsupported indicates a protocol was requested on an
	// operation that neither overrides it nor can decompose.
	ErrProtocolUnsupported = errors.New("protocol unsupported")
)

// BuildError is a construction error with the wiring context attached.
//
// Description:
//
//	Wraps one of the construction sentinels with the operation, register,
//	and soquet involved, so messages name exactly what was miswired. Use
//	errors.Is against the sentinel to classify.
type BuildError struct {
	// Op is the builder call that failed ("add", "split", "finalize", ...).
	Op string

	// Bloq is the operation being wired, when one was involved.
	Bloq Bloq

	// Register is the register name involved, when known.
	Register string

	// Soquet is the rendered soquet involved, when known.
	Soquet string

	// Err is the underlying sentinel error.
	Err error
}

// Error returns the error message.
func (e *BuildError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Bloq != nil {
		fmt.Fprintf(&sb, " %s", e.Bloq)
	}
	fmt.Fprintf(&sb, ": %v", e.Err)
	if e.Register != "" {
		fmt.Fprintf(&sb, " (register %q)", e.Register)
	}
	if e.Soquet != "" {
		fmt.Fprintf(&sb, " (soquet %s)", e.Soquet)
	}
	return sb.String()
}

// Unwrap returns the underlying sentinel.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// ProtocolError reports that a protocol could not be resolved for a bloq.
type ProtocolError struct {
	// Protocol names the protocol that was requested.
	Protocol string

	// Bloq is the operation the protocol was requested on.
	Bloq Bloq

	// Err is the underlying cause (ErrProtocolUnsupported, possibly
	// wrapping the decomposition failure).
	Err error
}

// Error returns the error message.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s protocol unsupported for %s: %v", e.Protocol, e.Bloq, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// CycleError reports a cycle found during composite validation.
type CycleError struct {
	// Path lists the instance IDs along the detected cycle.
	Path []InstanceID
}

// Error returns the error message.
func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return fmt.Sprintf("connection graph has a cycle: %s", strings.Join(parts, " -> "))
}

// Unwrap returns ErrGraphCycle so errors.Is classification works.
func (e *CycleError) Unwrap() error {
	return ErrGraphCycle
}
