// Package layout derives population targets from the viewport and keeps the
// two node layers in step with it.
//
// [ComputeTargets] scales baseline values to the viewport: node counts and
// the pulse cap by the area ratio, edge lengths by its square root. Small
// viewports (shorter side below CompactBelow) get an extra density
// multiplier. Every value is clamped to its [Range].
//
// A [Manager] applies targets to a [Scene]:
//
//   - first run, or any count changed: both layers are resampled and both
//     graphs rebuilt ([Rebuilt])
//   - only the size changed: nodes and origins are scaled by the width and
//     height ratios and edges rebuilt with the new length limits ([Rescaled])
//   - nothing changed: [Unchanged]
package layout
