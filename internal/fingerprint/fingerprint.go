package fingerprint

// Fingerprint is an opaque per-image signature supporting a distance
// operation used as a similarity proxy. Distance is symmetric and
// non-negative; zero means the signatures are identical.
type Fingerprint interface {
	Distance(other Fingerprint) (int, error)
}

// Similar reports whether two fingerprints are within threshold of each
// other. It is symmetric in a and b.
func Similar(a, b Fingerprint, threshold int) (bool, error) {
	distance, err := a.Distance(b)
	if err != nil {
		return false, err
	}
	return distance <= threshold, nil
}
