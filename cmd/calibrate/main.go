// Command calibrate samples pixels from a screenshot and prints their
// colors in the forms config.yaml accepts.
//
//	calibrate [-radius N] train.png 120,130 400,40
//
// Each point is averaged over a (2N+1)² square. The HSV column uses the
// same conversion the bot matches with; the OpenCV column is printed next
// to it so values copied from other tools can be compared.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gocv.io/x/gocv"

	"flyff-farm-bot/internal/colormatch"
)

type sample struct {
	x, y    int
	r, g, b uint8
}

func main() {
	radius := flag.Int("radius", 0, "average over a square of this half-width")
	tol := flag.Int("tol", 5, "tolerance printed in the config snippet")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: calibrate [-radius N] [-tol N] <image> x,y ...")
		os.Exit(2)
	}
	if err := run(flag.Arg(0), flag.Args()[1:], *radius, *tol); err != nil {
		fmt.Fprintln(os.Stderr, "calibrate:", err)
		os.Exit(1)
	}
}

func run(path string, points []string, radius, tol int) error {
	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		return fmt.Errorf("could not read image %s", path)
	}
	defer img.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	fmt.Printf("Image size: %dx%d\n\n", img.Cols(), img.Rows())

	for _, p := range points {
		x, y, err := parsePoint(p)
		if err != nil {
			return err
		}
		if x < 0 || y < 0 || x >= img.Cols() || y >= img.Rows() {
			fmt.Printf("(%d,%d): outside image\n", x, y)
			continue
		}
		s := average(img, x, y, radius)
		h := colormatch.ToHSV(s.r, s.g, s.b)
		cvH := hsv.GetUCharAt(y, x*3+0)
		cvS := hsv.GetUCharAt(y, x*3+1)
		cvV := hsv.GetUCharAt(y, x*3+2)

		fmt.Printf("(%d,%d): RGB=(%d,%d,%d) HSV=(%d,%d,%d) OpenCV=(%d,%d,%d)\n",
			x, y, s.r, s.g, s.b, h.H, h.S, h.V, cvH, cvS, cvV)
		fmt.Printf("  - { rgb: [%d, %d, %d], tolerance: %d }\n", s.r, s.g, s.b, tol)
		fmt.Printf("  - { hsv: [%d, %d, %d], hsv_tolerance: [10, %d, %d] }\n", h.H, h.S, h.V, tol, tol)
	}
	return nil
}

func parsePoint(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("point %q: want x,y", s)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(xs))
	y, errY := strconv.Atoi(strings.TrimSpace(ys))
	if err := errors.Join(errX, errY); err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", s, err)
	}
	return x, y, nil
}

// average returns the mean color of the square around x,y clipped to the
// image. Mats are BGR.
func average(img gocv.Mat, x, y, radius int) sample {
	var sumR, sumG, sumB, n int
	for yy := y - radius; yy <= y+radius; yy++ {
		for xx := x - radius; xx <= x+radius; xx++ {
			if xx < 0 || yy < 0 || xx >= img.Cols() || yy >= img.Rows() {
				continue
			}
			sumB += int(img.GetUCharAt(yy, xx*3+0))
			sumG += int(img.GetUCharAt(yy, xx*3+1))
			sumR += int(img.GetUCharAt(yy, xx*3+2))
			n++
		}
	}
	return sample{
		x: x, y: y,
		r: uint8(sumR / n),
		g: uint8(sumG / n),
		b: uint8(sumB / n),
	}
}
