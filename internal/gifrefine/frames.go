package gifrefine

import (
	"image"
	"image/draw"
	"image/gif"
	"os"

	ximage "golang.org/x/image/draw"
)

// decodeFrames decodes every frame of the GIF at path into fully-composited
// RGBA images (image/gif frames are deltas against a shared canvas; GIF
// decoding has to replay them in order to get each frame's true pixels).
func decodeFrames(path string) ([]*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ErrDecode{Path: path, Err: err}
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, &ErrDecode{Path: path, Err: err}
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	canvas := image.NewRGBA(bounds)
	frames := make([]*image.RGBA, len(g.Image))
	for i, paletted := range g.Image {
		draw.Draw(canvas, paletted.Bounds(), paletted, image.Point{}, draw.Over)
		frame := image.NewRGBA(bounds)
		draw.Draw(frame, bounds, canvas, image.Point{}, draw.Src)
		frames[i] = frame
	}
	return frames, nil
}

// isStatic implements Stage A: a GIF is static if it has a single frame,
// or if every non-first frame's gradient hash is within distance of the
// first frame's hash.
func isStatic(frames []*image.RGBA, maxDistance int) (bool, error) {
	if len(frames) <= 1 {
		return true, nil
	}
	first := gradientHash(frames[0])
	for _, frame := range frames[1:] {
		h := gradientHash(frame)
		dist, err := hammingDistance(first, h)
		if err != nil {
			return false, err
		}
		if dist >= maxDistance {
			return false, nil
		}
	}
	return true, nil
}

// anchorIndices implements Stage B's frame selection: five fixed anchors
// at {0, n/4, n/2, 3n/4, n-1} when n >= 5, or every index in permissive
// mode, or ErrPoorFrames in strict mode.
func anchorIndices(n int, permissive bool) ([]int, error) {
	if n < 5 {
		if !permissive {
			return nil, &ErrPoorFrames{FrameCount: n}
		}
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}
	return []int{0, n / 4, n / 2, n * 3 / 4, n - 1}, nil
}

// resizeToSquare resizes img to hw x hw via bilinear filtering, matching
// the reference worker's resize_to_fill + Triangle-filter step closely
// enough for embedding purposes (golang.org/x/image/draw's BiLinear is the
// ecosystem's standard smooth-downscale filter).
func resizeToSquare(img image.Image, hw int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, hw, hw))
	ximage.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), ximage.Src, nil)
	return dst
}

// toRGBBytes flattens an RGBA image to packed RGB bytes (dropping alpha),
// matching the reference worker's to_rgb8().into_raw() step.
func toRGBBytes(img *image.RGBA) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			out = append(out, c.R, c.G, c.B)
		}
	}
	return out
}
