// Package domain models EV charging session data and the canonical schema
// all datasets are normalized into.
//
// # Canonical schema
//
// Every formatted dataset is a four-column table:
//
//	EV_id_x,start_datetime,end_datetime,total_energy
//
// EV_id_x is a compact vehicle/user token (EV0, EV1, ...) stable across
// incremental fetches. The two datetime columns are naive local timestamps —
// timezone already resolved and stripped — serialized as
// "2006-01-02 15:04:05". total_energy is kWh delivered during the session.
// Derived columns (day-of-week, time-of-day) belong to downstream plotting,
// not to this pipeline.
//
// # ACN data conventions
//
// The ACN research portal (https://ev.caltech.edu) serves charging sessions
// per site (caltech, jpl, office001) as JSON pages. Timestamps use the fixed
// RFC-1123-like layout
//
//	"Mon, 2 Jan 2006 15:04:05 GMT"
//
// and are UTC. Each record carries an IANA timezone name (for example
// "America/Los_Angeles"); a dataset must contain exactly one distinct zone,
// and both timestamps are converted into it before the offset is stripped.
//
// userID is frequently absent. Missing ids receive sequential placeholders
// (missing_0, missing_1, ...) counted among the missing rows only, then the
// whole column is factorized: distinct values map to EV<n> tokens in order of
// first appearance, so a given raw file always produces the same tokens.
//
// # ASR data conventions
//
// The 4TU-hosted office parking dataset ships as a semicolon-delimited CSV
// inside a versioned ZIP archive. Its column names already match the
// canonical schema; normalization is selection plus type coercion.
package domain
