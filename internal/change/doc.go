// Package change implements the DEM-of-difference pipeline: elementwise
// differencing of two co-registered elevation grids, a mean/stddev threshold
// band that rejects survey noise and outliers, and the conversion of accepted
// elevation change into sediment volume and mass.
//
// The threshold heuristic (accept values inside [|k_noise·σ+x̄|,
// |k_outlier·σ+x̄|]) was tuned by visual inspection of field datasets, not by
// a principled statistical method. Both multipliers are required inputs; the
// observed surveys used k_noise=1 with k_outlier=6 or 7 depending on site.
package change
