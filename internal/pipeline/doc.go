// Package pipeline runs the five-stage documentation build: prepare the output
// directories, acquire the style repository, generate the transient generator
// configuration, run the generator and clean up.
//
// Stages execute strictly in order. A fatal or canceled stage aborts the
// build; cleanup failures are recorded as warnings. The transient
// configuration file is removed on every exit path once written, except when
// the generator itself fails, in which case it is kept for inspection.
package pipeline
