// Package pipeline runs an ordered chain of feature preprocessors over a
// feature container.
//
// It is the composition root for preprocessing: it owns the stage order and
// the init/cleanup lifecycle, and delegates all numeric work to the stages
// (for example *rff.Mapper).
package pipeline
