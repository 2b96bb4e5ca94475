// Package curve provides the response curves that shape every tuned value.
//
// All functions are pure. Inputs are usually normalized amounts in [0, 1]
// (mass, softness, angle fractions) and outputs are multipliers whose ranges
// are documented per function:
//
//   - [InverseSmoothStep]: piecewise power curve with a movable knee
//   - [QuadraticRegression]: linearizes multiplier sliders
//   - [Exponential1], [Exponential2]: convex growth and saturating growth
//   - [DeemphasizeMiddle]: flattens a slider around its midpoint
//
// Slider transforms ([SoftnessAmount], [QuicknessAmount]) live here as well
// because they are the first curve applied to every user input.
package curve
