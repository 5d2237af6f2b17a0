// Package dynamo holds the primitives shared by the kinesim solvers.
//
// Everything works in screen space with +y pointing down, so a terrain
// height is the y of the surface and a point is below ground when its y
// is larger than that height.
//
//   - [Vec]: 2-D vector, an alias of the chipmunk cp.Vector
//   - [Terrain]: height and slope lookup along x
//   - [TargetSupplier]: produces the point a rig chases each tick
//   - [Frame]: per-tick snapshot consumed by metrics, storage and viewers
//   - [ConfigError]: construction-time validation failure
//
// # Example
//
//	var t dynamo.Terrain = terrain.NewFlat(500)
//	s := t.Sample(120)
//	below := p.Y > s.Height
//
// # Thread Safety
//
// Nothing in the solver packages locks. A rig and everything it owns must
// be driven from one goroutine; run independent rigs in parallel with
// sim.Ensemble.
package dynamo
