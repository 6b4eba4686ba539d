// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package callgraph

import "errors"

var (
	// ErrRootExcluded indicates the generalizer mapped the expansion root
	// itself to nil, leaving nothing to expand.
	ErrRootExcluded = errors.New("generalizer excluded the root")

	// ErrDepthExceeded indicates expansion hit the WithMaxDepth bound
	// before reaching leaves.
	ErrDepthExceeded = errors.New("call graph depth exceeded")

	// ErrUnknownNode indicates a sigma query for an operation the graph
	// does not contain.
	ErrUnknownNode = errors.New("operation not in call graph")
)
