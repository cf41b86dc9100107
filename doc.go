// Package mosaic provides the shared plumbing for coordinated chart marks:
// a plot-level attribute store with change notification, scale domains that
// can be fixed, transient, or shared across sibling marks, and the grid data
// model produced by an external binning engine.
//
// # Overview
//
// A Plot owns an Attributes store and an inner drawing area. Marks (see the
// raster sub-package) read scale configuration from the store, publish
// computed domains back to it so coordinated plots agree on color and
// opacity encodings, and emit renderable image-layer specs.
//
// # Quick Start
//
//	plot := mosaic.NewPlot(256, 128)
//	plot.Attrs.Set("colorScheme", "viridis")
//
//	mark := raster.New(plot)
//	mark.SetGrid(grid) // grid comes from the binning engine
//
//	spec, err := mark.Render()
//
// # Concurrency
//
// The pipeline is single-threaded and event driven: attribute changes and
// grid updates trigger synchronous re-rasterization. Attribute reads and
// writes are not locked; last writer wins, and the fixed/transient flags on
// Domain arbitrate which writes are honored across passes.
package mosaic

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
