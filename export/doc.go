// Package export turns composite frames into shareable files.
//
// Frames are stamped with a fixed watermark line and encoded as PNG, JPEG
// or a one-page PDF sheet carrying the frame and a short caption.
package export
