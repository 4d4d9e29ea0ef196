// Package raster holds the pixel buffers that flow through the visualization
// pipeline: RGBA pixmaps for photos, textures and frames, and alpha-only
// masks for selections.
//
// Buffers handed to the pipeline are treated as immutable. Stages that need
// to change pixels clone first, so snapshots such as undo history entries
// stay valid.
package raster
