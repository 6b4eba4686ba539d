// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tensor resolves operations to dense complex tensors.
//
// A Dense carries one index per boundary soquet (dimension 2^bits), left
// boundary first. Contract resolves any operation: a direct form from the
// Backed trait when the operation supplies one, otherwise the decomposition
// contracted as a tensor network (a node per contained instance, a shared
// index per connection) with pairwise reductions done as matrix
// multiplications. Widths must be concrete; a free symbolic width is an
// eager error naming the register.
//
// # Thread Safety
//
// Dense values are mutable via Set; share only after construction is done.
// Contract allocates fresh state per call and is safe to run concurrently.
//
// # Example
//
//	u, err := tensor.Contract(gate)
//	adj, err := tensor.Contract(qir.AdjointOf(gate))
//	same := adj.EqualApprox(u.ConjTranspose(), 1e-12)
package tensor
