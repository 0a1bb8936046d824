// Package viz renders frames and wireframes into terminal output.
//
//   - [Canvas]: braille dot canvas, two dots per column and four per row
//     of text, with ordered dithering behind [Canvas.Shade]
//   - [Rasterize]: resamples a rendered frame's luminance onto a canvas
//   - [DrawWireframe]: projected polytope edges as canvas lines
//   - [Sparkline]: severity-colored frame-time strip for the terminal HUDs
package viz
