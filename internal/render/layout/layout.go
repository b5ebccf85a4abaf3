package layout

import "image"

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// Union returns the smallest rectangle covering every non-empty input.
func Union(rects ...image.Rectangle) image.Rectangle {
	var out image.Rectangle
	for _, rect := range rects {
		out = out.Union(Normalize(rect))
	}
	return out
}

// Clip intersects rect with bounds. The result is empty when they do not overlap.
func Clip(rect, bounds image.Rectangle) image.Rectangle {
	return Normalize(rect).Intersect(Normalize(bounds))
}

// StartX returns the x at which contentWidth starts when left-aligned in rect.
func StartX(rect image.Rectangle, contentWidth int) int {
	return Normalize(rect).Min.X
}

// CenterX returns the x at which contentWidth starts when centered in rect.
func CenterX(rect image.Rectangle, contentWidth int) int {
	rect = Normalize(rect)
	return rect.Min.X + (rect.Dx()-contentWidth)/2
}

// EndX returns the x at which contentWidth starts when right-aligned in rect.
func EndX(rect image.Rectangle, contentWidth int) int {
	rect = Normalize(rect)
	return rect.Max.X - contentWidth
}

// FitScaled returns the largest integer multiple of srcSize that fits into
// dst, centered. When even 1x does not fit, the aspect-preserving fraction is
// used instead.
func FitScaled(srcSize image.Point, dst image.Rectangle) image.Rectangle {
	dst = Normalize(dst)
	if srcSize.X <= 0 || srcSize.Y <= 0 || dst.Empty() {
		return image.Rectangle{}
	}
	scale := dst.Dx() / srcSize.X
	if s := dst.Dy() / srcSize.Y; s < scale {
		scale = s
	}
	var width, height int
	if scale >= 1 {
		width, height = srcSize.X*scale, srcSize.Y*scale
	} else {
		width = dst.Dx()
		height = srcSize.Y * dst.Dx() / srcSize.X
		if height > dst.Dy() {
			height = dst.Dy()
			width = srcSize.X * dst.Dy() / srcSize.Y
		}
	}
	minX := dst.Min.X + (dst.Dx()-width)/2
	minY := dst.Min.Y + (dst.Dy()-height)/2
	return image.Rect(minX, minY, minX+width, minY+height)
}
