// Package fpx provides an incrementally loaded, observable photo feed for a
// page-keyed remote photo API in the style of 500px.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, sqlite/, prometheus/).
// The pagination engine itself lives in paging/.
package fpx
