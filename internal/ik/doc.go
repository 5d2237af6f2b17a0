// Package ik solves two-segment reach problems with FABRIK.
//
// A two-segment chain reaching a target inside its annulus has two
// mirror-image elbow solutions. [SolveSide] finds one of them by nudging the
// elbow toward a chosen [Side] on every iteration, and [Solve] runs both and
// lets a [TieBreak] policy pick. [Leg] composes the solver into a
// three-segment limb guided by a leader segment.
package ik
