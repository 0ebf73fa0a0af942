// Package rff maps feature vectors into a random Fourier feature space whose
// inner product approximates the Gaussian kernel
//
//	k(x, y) = exp(-|x - y|^2 / (2 sigma^2))
//
// following Rahimi and Recht. Approximation quality depends on the dimension
// of the feature space, not on the number of vectors.
//
// A Mapper is used in one of two ways:
//
//  1. From scratch: SetKernelWidth and SetDimFeatureSpace, then Init with the
//     input features (or SetDimInputSpace followed by EnsureCoefficients).
//  2. Reusing coefficients from another mapper, for example one fitted on
//     training data: SetCoefficients with the value returned by the other
//     mapper's Coefficients. Init keeps adopted coefficients as long as the
//     input and feature dimensions match them.
//
// Mutating methods are not safe for concurrent use. Once coefficients are
// Ready, TransformVector may be called from many goroutines.
package rff
