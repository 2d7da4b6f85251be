// Package io reads screenshots and writes rendered PNGs.
//
// # Inputs
//
// [Decode] understands PNG, JPEG and GIF from the standard library plus
// WebP, BMP and TIFF from golang.org/x/image. A [Loader] resolves a
// config image reference against the raw directory, or downloads it when
// the reference is an http(s) URL. A local file that does not exist is
// reported with MISSING_INPUT_IMAGE so the pipeline can substitute a
// placeholder.
//
// # Outputs
//
// [EncodePNG] writes an opaque image with default compression; [WritePNG]
// creates parent directories first. Rendered entries are named by
// [OutputName]:
//
//	1_premium.png
//	2_premium.png
//
// [ListRaw] returns the screenshots of a raw directory in name order, which
// is the order entries are mapped to.
package io
