// Package terrain provides ground profiles for kinesim rigs.
//
// [HeightField] is the procedural, unbounded profile: a deterministic
// recurrence over integer x, memoized with a sliding window. [Flat] and
// [Polyline] are static profiles for tests and hand-built scenes.
//
// All of them implement dynamo.Terrain. Heights are screen-space y values,
// so a smaller height is a higher surface.
package terrain
