// package pipeline orchestrates one fetch run: recently-played history,
// audio features for the distinct tracks heard, a stable inner join of the
// two, and persistence of raw snapshots plus the merged dataset.
//
// The pipeline is sequential by design: one user, one run, one request in
// flight at a time.
package pipeline
