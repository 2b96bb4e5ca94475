// Package analysis characterizes recorded motion: how fast a breast
// oscillates after a disturbance and how long it takes to settle.
//
//   - [PowerSpectrum]: magnitude spectrum of a zero-padded series
//   - [DominantFrequency]: strongest non-DC frequency in Hz
//   - [SettlingTime]: time after which a series stays near its final value
//   - [Overshoot]: largest excursion beyond the final value
package analysis
