// Package raster reads the images a processing run produces and prepares
// them for embedding: aspect ratios for the grid layout, downscaled PNG
// thumbnails, and EPS plots rasterized through Ghostscript.
package raster
