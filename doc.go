// Package swatch previews a surface material in place on a photograph.
//
// # Overview
//
// A user clicks a region of a scene photo. The click grows an
// edge-respecting selection, the selection is merged into the current mask
// with undo/redo history, and a tiled, relit rendering of a brick or tile
// material is composited into the masked area.
//
// # Quick Start
//
//	s := swatch.NewSession()
//	defer s.Close()
//
//	photo, _ := raster.DecodeFile("patio.jpg")
//	s.LoadPhoto(photo)
//	s.SetMaterial(pattern.Material{ID: "red-clay", Image: swatchImg})
//	s.SetPattern(pattern.Config{Bond: pattern.BondHerringbone, Grout: color.NRGBA{200, 200, 200, 255}})
//
//	if _, err := s.Click(ctx, image.Pt(120, 340)); err != nil {
//		return err
//	}
//	frame, _ := s.Frame(ctx)
//
// # Pipeline
//
// The stages run leaves first:
//   - [BuildEdgeMap]: Sobel edge mask, once per photo
//   - [Segment]: redmean flood fill stopped at edges
//   - [Combine] and [History]: add/subtract/replace with undo and redo
//   - pattern.Synthesizer: tileable bond texture from a material swatch
//   - composite.Compositor: masked tiling plus relight passes
//
// [Session] ties the stages together and serializes clicks.
//
// # Logging
//
// The package is silent by default. Call [SetLogger] to route diagnostics
// from swatch and its sub-packages to a [log/slog] logger.
package swatch
