// Package archiver moves media files from a flat source directory into
// year-month folders under an archive root.
//
// A run lists the immediate entries of the source directory, announces each
// regular file on the progress writer, asks the matcher chain for a
// destination and moves the file there. Files no matcher recognizes stay where
// they are. Failing to create a destination folder or to move a file aborts
// the run; files moved before the failure stay moved.
package archiver
