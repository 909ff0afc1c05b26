package input

// Zapper implements the NES light gun (port 2, $4017 bit 4 for trigger,
// bit 3 for the light-sense photodiode). The host is responsible for
// mapping its pointing device to screen coordinates and calling Aim; on
// every $4017 read the deck tests the frame buffer pixel at that position
// with Sense.
type Zapper struct {
	x, y     int
	onScreen bool
	trigger  bool
}

// NewZapper returns a Zapper aimed off-screen with the trigger released.
func NewZapper() *Zapper {
	return &Zapper{x: -1, y: -1}
}

// Aim updates the gun's screen-space position. Passing onScreen=false
// (e.g. the pointer left the render area) always reports light-detection
// failure regardless of frame content, matching a real light gun pointed
// away from the CRT.
func (z *Zapper) Aim(x, y int, onScreen bool) {
	z.x, z.y = x, y
	z.onScreen = onScreen
}

// SetTrigger sets the trigger button state.
func (z *Zapper) SetTrigger(pressed bool) { z.trigger = pressed }

// Position returns the gun's current aim point and whether it is over the
// visible screen area.
func (z *Zapper) Position() (x, y int, onScreen bool) { return z.x, z.y, z.onScreen }

// Read produces the $4017 bit pattern: bit 4 set while the trigger is held,
// bit 3 clear when the aimed pixel is bright enough to trigger the
// photodiode (the deck computes that from the PPU frame buffer and calls
// Sense before each read), set otherwise.
func (z *Zapper) Read(lightDetected bool) uint8 {
	var v uint8
	if z.trigger {
		v |= 0x10
	}
	if !lightDetected {
		v |= 0x08
	}
	return v
}

// brightnessThreshold is the minimum NTSC luma (0-255) the photodiode
// treats as "bright". Only the single aimed pixel is tested; there is no
// multi-scanline detection window.
const brightnessThreshold = 96

// Sense reports whether an RGB frame buffer pixel (as produced by
// ppu.PPU.GetFrameBuffer, 0x00RRGGBB) at the gun's aim point is bright
// enough for the photodiode to detect.
func Sense(rgb uint32) bool {
	r := (rgb >> 16) & 0xFF
	g := (rgb >> 8) & 0xFF
	b := rgb & 0xFF
	luma := (r*299 + g*587 + b*114) / 1000
	return luma >= brightnessThreshold
}
