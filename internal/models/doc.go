// Package models defines the core domain models for Allotment.
//
// # Models
//
//   - Participant: a named holder of a percentage share
//   - Summary: the participant list together with the unallocated quota
//
// # Design Principles
//
// 1. **One entity**: participants are the only persisted state
// 2. **Checked, not stored**: the "shares sum to at most 100" rule is recomputed
//    from the current participant set on every write, never cached in a column
// 3. **Wire compatibility**: JSON field names match the columns of tb_participant
package models
