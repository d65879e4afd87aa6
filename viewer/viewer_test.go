package viewer

import (
	"image"
	"testing"
)

func TestWindowSize(t *testing.T) {
	tests := []struct {
		r    image.Rectangle
		want image.Point
	}{
		{image.Rect(0, 0, 640, 480), image.Point{X: 640, Y: 480}},
		{image.Rect(0, 0, 1080, 1080), image.Point{X: 1000, Y: 768}},
		{image.Rect(10, 10, 70, 2000), image.Point{X: 60, Y: 768}},
	}

	for _, tt := range tests {
		if got := windowSize(tt.r); got != tt.want {
			t.Errorf("Want windowSize(%v) = %v, got %v", tt.r, tt.want, got)
		}
	}
}
