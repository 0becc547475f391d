// Package analysis samples body trajectories and recovers their periods.
//
//   - [Sample]: world positions of every body on a fixed time grid
//   - [PowerSpectrum]: magnitude spectrum of a real series
//   - [DominantPeriod]: period of the strongest oscillation in a series
//
// Period recovery is a consistency check on the composer: a planet's x
// coordinate oscillates with its orbital period when it orbits the Star
// directly, and with a mix of its own and its ancestors' periods otherwise.
package analysis
