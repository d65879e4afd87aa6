package flockart

import (
	"image"
	"log/slog"
	"os"
	"time"
)

// DecodeImages takes a list of image files and decodes them into image.Image
// types. Note that the number of images returned may not be the number of
// image files passed in. Namely, an image file is skipped if it cannot be
// read or decoded into an image type that Go understands.
// Callers register the decoders they need with blank imports.
func DecodeImages(imageFiles []string) ([]string, []image.Image) {
	// A temporary type used to transport decoded images over channels.
	type tmpImage struct {
		img  image.Image
		name string
	}

	// Decoded all images specified in parallel.
	imgChans := make([]chan tmpImage, len(imageFiles))
	for i, fName := range imageFiles {
		imgChans[i] = make(chan tmpImage, 1)
		go func(ch chan<- tmpImage, fName string) {
			defer close(ch)
			img, err := decodeImage(fName)
			if err != nil {
				slog.Warn("skipping image", "file", fName, "error", err)
				return
			}
			ch <- tmpImage{img: img, name: Basename(fName)}
		}(imgChans[i], fName)
	}

	// Now collect all the decoded images into a slice of names and a slice
	// of images.
	names := make([]string, 0, len(imageFiles))
	imgs := make([]image.Image, 0, len(imageFiles))
	for _, imgChan := range imgChans {
		if tmpImg, ok := <-imgChan; ok {
			names = append(names, tmpImg.name)
			imgs = append(imgs, tmpImg.img)
		}
	}

	return names, imgs
}

func decodeImage(fName string) (image.Image, error) {
	file, err := os.Open(fName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	start := time.Now()
	img, kind, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	slog.Debug("decoded image", "file", fName, "kind", kind, "took", time.Since(start))
	return img, nil
}

// VpCenter inspects the canvas and image geometry, and determines where the
// origin of the image should be painted into the canvas.
// If the image is bigger than the canvas, this is always (0, 0).
// If the image is the same size, then it is also (0, 0).
// If a dimension of the image is smaller than the canvas, then:
// x = (canvas_width - image_width) / 2 and
// y = (canvas_height - image_height) / 2
func VpCenter(ximg image.Image, canWidth, canHeight int) image.Point {
	xmargin, ymargin := 0, 0
	if ximg.Bounds().Dx() < canWidth {
		xmargin = (canWidth - ximg.Bounds().Dx()) / 2
	}
	if ximg.Bounds().Dy() < canHeight {
		ymargin = (canHeight - ximg.Bounds().Dy()) / 2
	}
	return image.Point{X: xmargin, Y: ymargin}
}
