// Package analysis turns recorded frames into series and summaries.
//
//   - [LateralSwing], [ReachMiss], [BodyEnergy], [BodyHeight]: per-frame series
//   - [PowerSpectrum], [DominantFrequency]: spectral view of a series
//   - [NodePath], [TargetPath]: point sets plotted with [Portrait.ToASCII]
//
// # Tail beat
//
// The dominant frequency of a fish's tail swing gives its beat period:
//
//	swing := analysis.LateralSwing(frames, -1)
//	freq, _ := analysis.DominantFrequency(swing, analysis.SampleInterval(frames))
//	if freq > 0 {
//	    period := 1 / freq // ticks
//	}
package analysis
