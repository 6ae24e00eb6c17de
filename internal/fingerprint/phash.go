package fingerprint

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	// Decoders for the supported image formats. Registration is all the
	// scanner needs; decoding goes through image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/corona10/goimagehash"
	"github.com/nfnt/resize"
)

// normalizedSize is the edge length images are resized to before hashing.
// Hashing from a fixed size keeps distances comparable across source
// resolutions.
const normalizedSize = 256

// PerceptualHash is the production Fingerprint: a 64-bit perception hash.
type PerceptualHash struct {
	hash *goimagehash.ImageHash
}

// FromImage computes the perceptual hash of an already-decoded image.
func FromImage(img image.Image) (*PerceptualHash, error) {
	normalized := normalize(img)
	hash, err := goimagehash.PerceptionHash(normalized)
	if err != nil {
		return nil, fmt.Errorf("perception hash: %w", err)
	}
	return &PerceptualHash{hash: hash}, nil
}

// HashFile decodes the image at path and computes its perceptual hash.
func HashFile(path string) (*PerceptualHash, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img)
}

// Distance returns the Hamming distance to another perceptual hash. Mixing
// fingerprint implementations is a programming error and is reported as one.
func (p *PerceptualHash) Distance(other Fingerprint) (int, error) {
	o, ok := other.(*PerceptualHash)
	if !ok {
		return 0, fmt.Errorf("cannot compare perceptual hash with %T", other)
	}
	return p.hash.Distance(o.hash)
}

// String renders the hash in goimagehash's hex form, for logs.
func (p *PerceptualHash) String() string {
	return p.hash.ToString()
}

// normalize converts to grayscale and resizes to normalizedSize squared.
func normalize(img image.Image) image.Image {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return resize.Resize(normalizedSize, normalizedSize, gray, resize.Lanczos3)
}
