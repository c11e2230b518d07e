// Package workspace connects the editor to the file system.
//
// A Resolver turns the short names users type ("cat", "cat.ppm") into paths
// by probing a list of search directories and known extensions. A Writer
// places output files in a single output directory, writing each one to a
// temporary file first and renaming it into place so a failed save never
// leaves a truncated image behind. Store combines both with the Netpbm codec
// and is what sessions load from and save to.
package workspace
