// Package transform runs a transform configuration end to end.
//
// An Orchestrator run performs these steps, failing fast on the first error:
//
//  1. load the engine
//  2. read and validate the config file
//  3. build the Move package when a build directory is given
//  4. create the output directory and remove stale *.mv files from it
//  5. check that every input file exists
//  6. transform each input and write it to the output directory under its
//     base name
//
// Outputs already written when a later file fails are left in place.
package transform
