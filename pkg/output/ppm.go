package output

import (
	"bufio"
	"fmt"
	"io"
)

// WritePPM writes the image as a plain-text P3 pixmap: a header with the
// width, height and maximum channel value followed by one "r g b" line per
// pixel in row-major order.
func WritePPM(w io.Writer, img *Image) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", img.Width, img.Height); err != nil {
		return fmt.Errorf("output: writing ppm header: %w", err)
	}

	for _, c := range img.Pixels {
		rgb := ToRGB8(c)
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", rgb[0], rgb[1], rgb[2]); err != nil {
			return fmt.Errorf("output: writing ppm pixel: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("output: flushing ppm: %w", err)
	}
	return nil
}
