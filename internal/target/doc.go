// Package target holds reference target suppliers: the drivers that tell a
// rig where to go on each tick.
//
// Suppliers are deterministic. Anything time dependent is a function of the
// tick number, never of the wall clock.
package target
