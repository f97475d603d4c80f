package slideshow

// FitSize scales an image of imgW x imgH to the largest size that fits in
// viewW x viewH while keeping its aspect ratio. Images smaller than the view
// are scaled up. Degenerate inputs yield 0, 0.
func FitSize(imgW, imgH, viewW, viewH float32) (float32, float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0
	}
	scale := viewW / imgW
	if h := viewH / imgH; h < scale {
		scale = h
	}
	return imgW * scale, imgH * scale
}
