package charts

import (
	"image"
	"image/color/palette"
	imagedraw "image/draw"
	"image/gif"
	"io"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"globalsouth/internal/dataset"
)

// ShareAnimation writes the share line as an animated GIF, one frame per
// year with the line growing up to that year.
func ShareAnimation(w io.Writer, d *dataset.Dataset, delay time.Duration, size Size) error {
	var frames []*plot.Plot
	for _, year := range dataset.Years(d) {
		p, err := ShareLine(d, year)
		if err != nil {
			return err
		}
		frames = append(frames, p)
	}
	return encodeGIF(w, frames, delay, size)
}

// RegionAnimation writes the regional bars as an animated GIF, one frame per
// year on a shared vertical scale.
func RegionAnimation(w io.Writer, d *dataset.Dataset, regions []dataset.Region, delay time.Duration, size Size) error {
	yMax := 1.0
	if hi, ok := dataset.ContributionMax(d, regions); ok && hi > 0 {
		yMax = hi * 1.1
	}

	var frames []*plot.Plot
	for _, year := range dataset.Years(d) {
		p, err := RegionBars(d, regions, year, yMax)
		if err != nil {
			return err
		}
		frames = append(frames, p)
	}
	return encodeGIF(w, frames, delay, size)
}

func encodeGIF(w io.Writer, frames []*plot.Plot, delay time.Duration, size Size) error {
	if len(frames) == 0 {
		return errNoData
	}

	anim := &gif.GIF{LoopCount: 0}
	centis := int(delay / (10 * time.Millisecond))
	if centis < 1 {
		centis = 1
	}

	for _, p := range frames {
		c := vgimg.New(size.Width, size.Height)
		p.Draw(draw.New(c))

		img := c.Image()
		bounds := img.Bounds()
		pal := image.NewPaletted(bounds, palette.WebSafe)
		imagedraw.Draw(pal, bounds, img, bounds.Min, imagedraw.Src)

		anim.Image = append(anim.Image, pal)
		anim.Delay = append(anim.Delay, centis)
	}

	return gif.EncodeAll(w, anim)
}
