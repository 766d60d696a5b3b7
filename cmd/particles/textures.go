package main

import (
	"image"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/embers/internal/particle"
	"github.com/decker502/embers/pkg/components"
)

const (
	arrowSize     = 16
	atlasFrame    = 24
	atlasFrames   = 8
	arrowUnits    = 4 // world units per arrow pixel scale
	atlasUnits    = 6
	pixelUnits    = 1
	textureArrow  = components.TextureID("arrow")
	textureAtlas  = components.TextureID("projectiles")
	textureSprite = components.TextureID("")
)

// textureSet resolves preset texture handles to procedurally generated
// images, so the viewer needs no asset files.
type textureSet struct {
	pixel  *ebiten.Image
	arrow  *ebiten.Image
	frames []*ebiten.Image

	warned map[components.TextureID]bool
}

func newTextureSet() *textureSet {
	pixel := ebiten.NewImage(1, 1)
	pixel.Fill(color.White)

	atlas := ebiten.NewImageFromImage(drawAtlas())
	frames := make([]*ebiten.Image, atlasFrames)
	for i := range frames {
		r := image.Rect(i*atlasFrame, 0, (i+1)*atlasFrame, atlasFrame)
		frames[i] = atlas.SubImage(r).(*ebiten.Image)
	}

	return &textureSet{
		pixel:  pixel,
		arrow:  ebiten.NewImageFromImage(drawArrow()),
		frames: frames,
		warned: make(map[components.TextureID]bool),
	}
}

// Resolve returns the image for a texture handle and atlas frame, and the
// particle scale at which it is drawn 1:1. Unknown handles fall back to a
// single white pixel.
func (t *textureSet) Resolve(id components.TextureID, frame int) (*ebiten.Image, float64) {
	switch id {
	case textureSprite:
		return t.pixel, pixelUnits
	case textureArrow:
		return t.arrow, arrowUnits
	case textureAtlas:
		if frame < 0 || frame >= len(t.frames) {
			frame = 0
		}
		return t.frames[frame], atlasUnits
	}
	if !t.warned[id] {
		t.warned[id] = true
		log.Printf("[ParticleViewer] Unknown texture %q, drawing pixels", id)
	}
	return t.pixel, pixelUnits
}

// drawArrow draws a white arrow pointing up (image -Y).
func drawArrow() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, arrowSize, arrowSize))
	mid := arrowSize / 2
	for y := 0; y < arrowSize; y++ {
		// 箭头头部占上半部分，杆占下半部分
		half := 1
		if y < mid {
			half = y/2 + 1
		}
		for x := mid - half; x < mid+half; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

// drawAtlas draws atlasFrames soft discs side by side, each a different hue.
func drawAtlas() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, atlasFrame*atlasFrames, atlasFrame))
	radius := float64(atlasFrame)/2 - 1
	for i := 0; i < atlasFrames; i++ {
		c, err := particle.ColorFromHSV(float32(i)*360/atlasFrames, 0.6, 1, 1)
		if err != nil {
			c = particle.White
		}
		for y := 0; y < atlasFrame; y++ {
			for x := 0; x < atlasFrame; x++ {
				dx := float64(x) - float64(atlasFrame)/2 + 0.5
				dy := float64(y) - float64(atlasFrame)/2 + 0.5
				d := math.Hypot(dx, dy) / radius
				if d > 1 {
					continue
				}
				a := 1 - d*d
				img.Set(i*atlasFrame+x, y, color.NRGBA{
					R: uint8(c.R * 255),
					G: uint8(c.G * 255),
					B: uint8(c.B * 255),
					A: uint8(a * 255),
				})
			}
		}
	}
	return img
}
