// Package srt reads and writes SubRip subtitle files.
//
// Parsing is tolerant: blocks that cannot be read are skipped and reported as
// issues instead of failing the whole file. Times are kept in integer
// milliseconds. The package also carries the small file transforms the CLI
// offers (linear shift, re-index, advertisement stripping, validation).
package srt
