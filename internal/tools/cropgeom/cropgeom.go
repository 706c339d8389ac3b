// Package cropgeom implements the crop-area geometry of the photo
// cropper: keeping a dragged rectangle inside its container, fitting
// aspect-ratio presets, and mapping on-screen coordinates into natural
// image pixel space.
package cropgeom

import (
	"fmt"
	"image"
	"math"
)

// Area is a rectangle in on-screen (displayed image) pixel coordinates.
type Area struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// AspectRatio is a width:height preset, e.g. 1:1 or 16:9.
type AspectRatio struct {
	Width  int
	Height int
	Name   string
}

// Common aspect ratio presets
var (
	Square    = AspectRatio{1, 1, "square"}
	Portrait  = AspectRatio{3, 4, "portrait"}
	Landscape = AspectRatio{4, 3, "landscape"}
	Wide      = AspectRatio{16, 9, "wide"}
)

// Presets returns the selectable aspect ratio presets.
func Presets() []AspectRatio {
	return []AspectRatio{Square, Portrait, Landscape, Wide}
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		// Rectangle larger than the container: pin to the low edge.
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// ClampOrigin moves the rectangle's top-left corner so the whole
// rectangle stays inside a container of the given size:
// x' = clamp(x, 0, containerWidth-width), and likewise for y.
func ClampOrigin(a Area, containerWidth, containerHeight float64) Area {
	a.X = clamp(a.X, 0, containerWidth-a.Width)
	a.Y = clamp(a.Y, 0, containerHeight-a.Height)
	return a
}

// Drag offsets the rectangle's origin by (dx, dy) and re-clamps it to
// the container, so any drag sequence preserves the containment
// invariant.
func Drag(a Area, dx, dy, containerWidth, containerHeight float64) Area {
	a.X += dx
	a.Y += dy
	return ClampOrigin(a, containerWidth, containerHeight)
}

// FitAspect recomputes the rectangle's width/height to the largest size
// of the given ratio that fits within the container minus margin on each
// side, keeping the existing origin and re-clamping it.
func FitAspect(a Area, ratio AspectRatio, containerWidth, containerHeight, margin float64) (Area, error) {
	if ratio.Width <= 0 || ratio.Height <= 0 {
		return a, fmt.Errorf("invalid aspect ratio %d:%d", ratio.Width, ratio.Height)
	}
	availW := containerWidth - 2*margin
	availH := containerHeight - 2*margin
	if availW <= 0 || availH <= 0 {
		return a, fmt.Errorf("margin %v leaves no room in %vx%v container", margin, containerWidth, containerHeight)
	}

	r := float64(ratio.Width) / float64(ratio.Height)
	w := availW
	h := w / r
	if h > availH {
		h = availH
		w = h * r
	}

	a.Width = w
	a.Height = h
	return ClampOrigin(a, containerWidth, containerHeight), nil
}

// ToNatural maps an on-screen area into natural image pixel space by the
// ratio naturalSize/displayedSize, clamped to the image bounds. The
// returned rectangle is what gets copied out of the source image.
func ToNatural(a Area, displayedWidth, displayedHeight float64, naturalWidth, naturalHeight int) (image.Rectangle, error) {
	if displayedWidth <= 0 || displayedHeight <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid displayed size %vx%v", displayedWidth, displayedHeight)
	}
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid natural size %dx%d", naturalWidth, naturalHeight)
	}

	scaleX := float64(naturalWidth) / displayedWidth
	scaleY := float64(naturalHeight) / displayedHeight

	x0 := int(math.Round(a.X * scaleX))
	y0 := int(math.Round(a.Y * scaleY))
	x1 := int(math.Round((a.X + a.Width) * scaleX))
	y1 := int(math.Round((a.Y + a.Height) * scaleY))

	rect := image.Rect(x0, y0, x1, y1).Intersect(image.Rect(0, 0, naturalWidth, naturalHeight))
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("crop area maps outside the image")
	}
	return rect, nil
}
