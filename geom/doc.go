// Package geom provides the planar geometry for converting vector drawings
// into routes: points, vectors, affine transforms, path outlines, Bézier
// flattening, polyline merging, and the rotate/stretch/scale-to-length
// transform engine.
//
// All operations are pure: they consume immutable inputs and derive new
// values, so any stage can be re-run whenever an upstream parameter changes.
//
// The flattening and arc approximation code follows the approach of the
// [kurbo] curve library.
//
// [kurbo]: https://github.com/linebender/kurbo
package geom
