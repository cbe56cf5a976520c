// Command polyfm is an interactive FM synthesizer played from the computer
// keyboard. The home row is the white keys, the row above is the black keys,
// Z/X shift octaves, 1-8 select presets and Tab cycles the algorithm.
package main

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"github.com/cbegin/polyfm-go"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	windowW      = 900
	windowH      = 560
	uiSampleRate = 48000

	textScale = 2
	charW     = 7 * textScale
	lineH     = 14 * textScale
)

var (
	bgColor     = color.RGBA{192, 192, 192, 255}
	panelColor  = color.RGBA{192, 192, 192, 255}
	borderColor = color.RGBA{128, 128, 128, 255}
	buttonColor = color.RGBA{192, 192, 192, 255}

	// 3D bevel colors for old-school embossed look.
	bevelLight  = color.RGBA{255, 255, 255, 255}
	bevelDarker = color.RGBA{64, 64, 64, 255}

	// Sunken panel interior.
	sunkenBgColor = color.RGBA{24, 24, 32, 255}

	sliderFillColor = color.RGBA{0, 0, 128, 255}

	highlightColor = color.RGBA{0, 0, 128, 255}
)

// keyNotes maps keyboard keys to semitone offsets from the base octave's C.
// Home row is the white keys, the row above is the black keys.
var keyNotes = map[ebiten.Key]int{
	ebiten.KeyA:         0,  // C
	ebiten.KeyW:         1,  // C#
	ebiten.KeyS:         2,  // D
	ebiten.KeyE:         3,  // D#
	ebiten.KeyD:         4,  // E
	ebiten.KeyF:         5,  // F
	ebiten.KeyT:         6,  // F#
	ebiten.KeyG:         7,  // G
	ebiten.KeyY:         8,  // G#
	ebiten.KeyH:         9,  // A
	ebiten.KeyU:         10, // A#
	ebiten.KeyJ:         11, // B
	ebiten.KeyK:         12, // C
	ebiten.KeyO:         13, // C#
	ebiten.KeyL:         14, // D
	ebiten.KeyP:         15, // D#
	ebiten.KeySemicolon: 16, // E
}

var presetKeys = [8]ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8,
}

var algorithmNames = [polyfm.NumAlgorithms]string{
	"Stack", "Twin", "Branch", "Parallel", "Dual", "Triple",
}

const (
	octaveMin = 2
	octaveMax = 7
)

type game struct {
	synth   *polyfm.Synth
	presets []polyfm.Preset

	presetIdx int
	octave    int

	// held maps keyboard keys to the MIDI note they struck, so an octave
	// change mid-hold still releases the right note.
	held map[ebiten.Key]int

	scopeBuf []float32
	wavePeak float64

	dragging int // 0=none, 1=chorus, 2=reverb

	status string

	textCache map[string]*ebiten.Image
}

func newGame() (*game, error) {
	s, err := polyfm.New(uiSampleRate)
	if err != nil {
		return nil, err
	}
	presets := polyfm.FactoryPresets()
	s.ApplyPreset(presets[0])
	if err := s.Start(); err != nil {
		return nil, err
	}
	return &game{
		synth:     s,
		presets:   presets,
		octave:    4,
		held:      make(map[ebiten.Key]int),
		scopeBuf:  make([]float32, s.Scope().Size()),
		status:    "Ready",
		textCache: make(map[string]*ebiten.Image, 1024),
	}, nil
}

func (g *game) Close() { _ = g.synth.Stop() }

func (g *game) Update() error {
	g.handleNoteKeys()
	g.handleControlKeys()
	g.handleMouse()
	return nil
}

func (g *game) handleNoteKeys() {
	for key, offset := range keyNotes {
		if inpututil.IsKeyJustPressed(key) {
			note := (g.octave+1)*12 + offset
			g.held[key] = note
			g.synth.NoteOn(note, polyfm.MidiToFreq(note))
		}
		if inpututil.IsKeyJustReleased(key) {
			if note, ok := g.held[key]; ok {
				delete(g.held, key)
				g.synth.NoteOff(note)
			}
		}
	}
}

func (g *game) handleControlKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) && g.octave > octaveMin {
		g.octave--
		g.setStatus(fmt.Sprintf("Octave: %d", g.octave))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyX) && g.octave < octaveMax {
		g.octave++
		g.setStatus(fmt.Sprintf("Octave: %d", g.octave))
	}
	for i, key := range presetKeys {
		if inpututil.IsKeyJustPressed(key) && i < len(g.presets) {
			g.selectPreset(i)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.cycleAlgorithm()
	}
}

func (g *game) selectPreset(i int) {
	g.presetIdx = i
	g.synth.ApplyPreset(g.presets[i])
	g.setStatus("Preset: " + g.presets[i].Name)
}

func (g *game) cycleAlgorithm() {
	alg := (g.synth.Algorithm() + 1) % polyfm.NumAlgorithms
	g.synth.SetAlgorithm(alg)
	g.setStatus("Algorithm: " + algorithmNames[alg])
}

func (g *game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	l := layoutRects()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		switch {
		case pointInRect(mx, my, l.algorithm):
			g.cycleAlgorithm()
			return
		case pointInRect(mx, my, l.chorus):
			g.dragging = 1
		case pointInRect(mx, my, l.reverb):
			g.dragging = 2
		default:
			for i, r := range l.presets {
				if pointInRect(mx, my, r) && i < len(g.presets) {
					g.selectPreset(i)
					return
				}
			}
		}
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragging = 0
	}
	switch g.dragging {
	case 1:
		v := sliderValueFromMouse(mx, l.chorus)
		g.synth.SetChorusMix(v)
		g.setStatus(fmt.Sprintf("Chorus: %d%%", int(v*100+0.5)))
	case 2:
		v := sliderValueFromMouse(mx, l.reverb)
		g.synth.SetReverbMix(v)
		g.setStatus(fmt.Sprintf("Reverb: %d%%", int(v*100+0.5)))
	}
}

type uiLayout struct {
	presets   [8]image.Rectangle
	algorithm image.Rectangle
	scope     image.Rectangle
	chorus    image.Rectangle
	reverb    image.Rectangle
	status    image.Rectangle
}

func layoutRects() uiLayout {
	pad := 20
	rowH := 44
	statusH := 40

	var l uiLayout
	btnW := (windowW - pad*2 - 7*8) / 8
	for i := range l.presets {
		x := pad + i*(btnW+8)
		l.presets[i] = image.Rect(x, pad, x+btnW, pad+rowH)
	}

	controlsTop := windowH - pad - statusH - 8 - rowH
	l.algorithm = image.Rect(pad, controlsTop, pad+170, controlsTop+rowH)
	l.chorus = image.Rect(pad+182, controlsTop, pad+520, controlsTop+rowH)
	l.reverb = image.Rect(pad+532, controlsTop, windowW-pad, controlsTop+rowH)

	l.scope = image.Rect(pad, pad+rowH+12, windowW-pad, controlsTop-12)

	statusTop := windowH - pad - statusH
	l.status = image.Rect(pad, statusTop, windowW-pad, statusTop+statusH)
	return l
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	l := layoutRects()

	for i, r := range l.presets {
		if i >= len(g.presets) {
			break
		}
		g.drawButton(screen, r, g.presets[i].Name)
		if i == g.presetIdx {
			ebitenutil.DrawRect(screen, float64(r.Min.X+3), float64(r.Max.Y-6), float64(r.Dx()-6), 3, highlightColor)
		}
	}

	g.drawDarkPanel(screen, l.scope)
	g.drawScope(screen, l.scope)

	g.drawButton(screen, l.algorithm, "Alg: "+algorithmNames[g.synth.Algorithm()])
	g.drawSlider(screen, l.chorus, "Chorus", g.synth.ChorusMix())
	g.drawSlider(screen, l.reverb, "Reverb", g.synth.ReverbMix())

	g.drawSunkenPanel(screen, l.status)
	msg := fmt.Sprintf("%s | Oct %d | Voices %d/%d | %s",
		g.presets[g.presetIdx].Name, g.octave,
		g.synth.ActiveVoices(), g.synth.Polyphony(), g.status)
	g.drawText(screen, msg, l.status.Min.X+8, l.status.Min.Y+6)
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	return windowW, windowH
}

func (g *game) drawScope(screen *ebiten.Image, rect image.Rectangle) {
	inner := image.Rect(rect.Min.X+8, rect.Min.Y+8, rect.Max.X-8, rect.Max.Y-8)
	width := inner.Dx()
	height := inner.Dy()
	if width < 2 || height < 4 {
		return
	}
	n := g.synth.Scope().CopyTo(g.scopeBuf)
	samples := g.scopeBuf[:n]
	if len(samples) < 2 {
		return
	}
	midY := inner.Min.Y + height/2

	// Center line.
	ebitenutil.DrawRect(screen, float64(inner.Min.X), float64(midY), float64(width), 1, color.RGBA{40, 44, 58, 100})

	// Auto-gain: track peak with fast attack, slow release.
	peak := float32(0)
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	target := float64(peak)
	if target < 0.01 {
		target = 0.01
	}
	if target > g.wavePeak {
		g.wavePeak = g.wavePeak*0.3 + target*0.7
	} else {
		g.wavePeak = g.wavePeak*0.995 + target*0.005
	}
	if g.wavePeak < 0.01 {
		g.wavePeak = 0.01
	}
	gain := float64(height/2-2) / g.wavePeak

	// Zero-crossing trigger stabilizes the display.
	trigger := findZeroCrossing(samples, len(samples)/4)
	visible := len(samples) - trigger
	if visible < 2 {
		visible = 2
	}

	waveColor := color.RGBA{80, 200, 255, 220}
	prevX := inner.Min.X
	prevY := midY - int(float64(samples[trigger])*gain)
	for px := 1; px < width; px++ {
		si := trigger + px*visible/width
		if si >= len(samples) {
			si = len(samples) - 1
		}
		y := midY - int(float64(samples[si])*gain)
		ebitenutil.DrawLine(screen, float64(prevX), float64(prevY), float64(inner.Min.X+px), float64(y), waveColor)
		prevX = inner.Min.X + px
		prevY = y
	}
}

// findZeroCrossing finds a rising zero-crossing to stabilize the waveform display.
func findZeroCrossing(samples []float32, searchLen int) int {
	if searchLen > len(samples)-2 {
		searchLen = len(samples) - 2
	}
	for i := 1; i < searchLen; i++ {
		if samples[i-1] <= 0 && samples[i] > 0 {
			return i
		}
	}
	return 0
}

func (g *game) drawSlider(screen *ebiten.Image, rect image.Rectangle, label string, value float64) {
	g.drawPanel(screen, rect)
	g.drawText(screen, fmt.Sprintf("%s %d%%", label, int(value*100+0.5)), rect.Min.X+8, rect.Min.Y+8)

	trackX := rect.Min.X + 160
	trackW := rect.Dx() - 176
	trackY := rect.Min.Y + rect.Dy()/2 - 4
	if trackW < 20 {
		return
	}
	// Sunken track groove.
	ebitenutil.DrawRect(screen, float64(trackX), float64(trackY), float64(trackW), 8, bevelDarker)
	ebitenutil.DrawRect(screen, float64(trackX), float64(trackY), float64(trackW-1), 1, borderColor)
	ebitenutil.DrawRect(screen, float64(trackX), float64(trackY), 1, 7, borderColor)
	// Fill.
	fillW := int(float64(trackW) * clamp(value, 0, 1))
	if fillW > 2 {
		ebitenutil.DrawRect(screen, float64(trackX+1), float64(trackY+1), float64(fillW-1), 6, sliderFillColor)
	}
	// Raised knob.
	knobX := trackX + fillW - 5
	if knobX < trackX-5 {
		knobX = trackX - 5
	}
	if knobX > trackX+trackW-5 {
		knobX = trackX + trackW - 5
	}
	knobRect := image.Rect(knobX, trackY-4, knobX+10, trackY+12)
	ebitenutil.DrawRect(screen, float64(knobRect.Min.X), float64(knobRect.Min.Y), float64(knobRect.Dx()), float64(knobRect.Dy()), panelColor)
	drawBorder(screen, knobRect)
}

func sliderValueFromMouse(mx int, rect image.Rectangle) float64 {
	trackX := rect.Min.X + 160
	trackW := rect.Dx() - 176
	if trackW <= 0 {
		return 0
	}
	return clamp(float64(mx-trackX)/float64(trackW), 0, 1)
}

func (g *game) setStatus(msg string) {
	g.status = msg
}

func (g *game) drawPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), panelColor)
	drawBorder(screen, rect)
}

func (g *game) drawSunkenPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), sunkenBgColor)
	drawSunkenBorder(screen, rect)
}

func (g *game) drawDarkPanel(screen *ebiten.Image, rect image.Rectangle) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), color.RGBA{0, 0, 0, 255})
	drawSunkenBorder(screen, rect)
}

func (g *game) drawButton(screen *ebiten.Image, rect image.Rectangle, label string) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), buttonColor)
	drawBorder(screen, rect)
	labelW := len([]rune(label)) * charW
	x := rect.Min.X + (rect.Dx()-labelW)/2
	y := rect.Min.Y + (rect.Dy()-lineH)/2
	g.drawText(screen, label, x, y)
}

// drawBorder draws a raised 3D bevel (highlight top/left, shadow bottom/right).
func drawBorder(screen *ebiten.Image, rect image.Rectangle) {
	x := float64(rect.Min.X)
	y := float64(rect.Min.Y)
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, bevelLight)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, bevelLight)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+h-2, w-3, 1, borderColor)
	ebitenutil.DrawRect(screen, x+w-2, y+1, 1, h-3, borderColor)
}

// drawSunkenBorder draws a sunken 3D bevel (shadow top/left, highlight bottom/right).
func drawSunkenBorder(screen *ebiten.Image, rect image.Rectangle) {
	x := float64(rect.Min.X)
	y := float64(rect.Min.Y)
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, borderColor)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, borderColor)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelLight)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelLight)
	ebitenutil.DrawRect(screen, x+1, y+1, w-3, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+2, 1, h-4, bevelDarker)
}

func (g *game) drawText(screen *ebiten.Image, msg string, x int, y int) {
	if msg == "" {
		return
	}
	img := g.textCache[msg]
	if img == nil {
		w := len([]rune(msg)) * 7
		if w < 1 {
			w = 1
		}
		img = ebiten.NewImage(w, 14)
		ebitenutil.DebugPrintAt(img, msg, 0, 0)
		if len(g.textCache) > 3000 {
			g.textCache = make(map[string]*ebiten.Image, 1024)
		}
		g.textCache[msg] = img
	}
	// Embossed shadow behind the text.
	opS := &ebiten.DrawImageOptions{}
	opS.GeoM.Scale(textScale, textScale)
	opS.GeoM.Translate(float64(x+2), float64(y+2))
	opS.ColorScale.Scale(0, 0, 0, 1)
	screen.DrawImage(img, opS)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(textScale, textScale)
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(img, op)
}

func clamp(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

func main() {
	g, err := newGame()
	if err != nil {
		log.Fatal(err)
	}
	defer g.Close()

	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowTitle("polyfm")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
