package draw

import "github.com/muesli/termenv"

// Tone is what a pixel shows. The palette decides how it looks.
type Tone uint8

const (
	ToneNone Tone = iota
	ToneFar
	ToneMid
	ToneNear
	ToneSide
	ToneWall
	ToneWallSide
	ToneShip
	ToneHit

	toneCount
)

var toneColors = [toneCount]string{
	ToneFar:      "#3a3a4e",
	ToneMid:      "#6c6c86",
	ToneNear:     "#b4b4d2",
	ToneSide:     "#4c4c62",
	ToneWall:     "#2f5476",
	ToneWallSide: "#1c354c",
	ToneShip:     "#ececec",
	ToneHit:      "#ff3b30",
}

// Palette holds the escape sequences for every tone under one color
// profile. With the Ascii profile every sequence is empty and tones only
// differ where they leave a pixel empty.
type Palette struct {
	fg    [toneCount]string
	bg    [toneCount]string
	reset string
}

// NewPalette builds the sequences for profile.
func NewPalette(profile termenv.Profile) *Palette {
	p := &Palette{}
	if profile == termenv.Ascii {
		return p
	}

	p.reset = termenv.CSI + termenv.ResetSeq + "m"
	for t := ToneNone + 1; t < toneCount; t++ {
		c := profile.Color(toneColors[t])
		if c == nil {
			continue
		}
		if seq := c.Sequence(false); seq != "" {
			p.fg[t] = termenv.CSI + seq + "m"
		}
		if seq := c.Sequence(true); seq != "" {
			p.bg[t] = termenv.CSI + seq + "m"
		}
	}
	return p
}
