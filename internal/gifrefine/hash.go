package gifrefine

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/NekoImageLand/nekodedup/internal/simkernel"
)

func hammingDistance(a, b []byte) (int, error) {
	dist, err := simkernel.Hamming(a, b)
	return int(dist), err
}

// GradientHash computes the same difference hash as the GIF static-frame
// filter, exported for reuse over arbitrary local image files (the
// perceptual-hash indexer and search subcommands, not just GIF frames).
func GradientHash(img image.Image) []byte {
	return gradientHash(img)
}

// gradientHash computes a 32x32 difference hash (dHash): the image is
// resized to 33x32 grayscale, then each pixel is compared to its right
// neighbor, yielding 32*32 = 1024 bits packed into 128 bytes. Two frames
// with a small Hamming distance between their hashes look visually alike.
func gradientHash(img image.Image) []byte {
	const size = 32
	gray := image.NewGray(image.Rect(0, 0, size+1, size))
	draw.BiLinear.Scale(gray, gray.Bounds(), img, img.Bounds(), draw.Src, nil)

	hash := make([]byte, (size*size+7)/8)
	bit := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			left := gray.GrayAt(x, y).Y
			right := gray.GrayAt(x+1, y).Y
			if left > right {
				hash[bit/8] |= 1 << uint(bit%8)
			}
			bit++
		}
	}
	return hash
}

// toGray is a convenience for callers that already have an arbitrary
// color model image and just want grayscale pixel access without a
// separate conversion pass in each call site.
func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}
