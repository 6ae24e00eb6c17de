// Package fingerprint defines the opaque image signature the clustering
// engine compares, and its perceptual-hash implementation.
//
// The engine only ever sees the Fingerprint interface: a symmetric,
// non-negative distance between two signatures, where distance zero means
// identical. The concrete implementation is a 64-bit perceptual hash
// computed after grayscale conversion and a 256x256 Lanczos resize, which
// makes the distance robust against rescaling, recompression, and minor
// edits. Swapping in an embedding-based fingerprint later only requires a
// new Distance implementation.
package fingerprint
