// Package analysis inspects recorded rig runs.
//
// A [Channel] names one scalar of one bone over time, for example
// "maintop/brace-upper-l/sy" for the stretch of the main topsail's upper
// left brace:
//
//	ch, _ := analysis.ParseChannel("maintop/brace-upper-l/sy")
//	series := ch.Extract(records)
//	period, _ := analysis.DominantPeriod(series)
//
//   - [PowerSpectrum]: magnitude spectrum of a series
//   - [DominantPeriod]: period of the strongest non-constant component
//   - [Summarize]: range, mean and deviation
//   - [PortraitToASCII]: one channel plotted against another
package analysis
