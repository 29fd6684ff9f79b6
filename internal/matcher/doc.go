// Package matcher derives a capture date and a canonical destination filename
// from a media file.
//
// Matchers are tried in a fixed order and the first one that recognizes a file
// wins:
//
//  1. CloudSync: "2021-07-04 12.30.05.jpg" (optionally "-N" before the extension)
//  2. MobileCapture: "IMG_20210704_123005.jpg" / "VID_20210704_123005.mp4"
//  3. EmbeddedMetadata: EXIF DateTimeOriginal read from the file content
//
// Filename matchers only look at the name. EmbeddedMetadata opens the file and
// treats every read or decode failure as a non-match.
package matcher
