// Package ebitenboard hosts a pinboard.Controller in an Ebitengine window.
//
// Board implements ebiten.Game: Update translates mouse, touch, wheel and
// keyboard input into controller events, and Draw renders the scene
// read-only.
//
//	board := ebitenboard.New(ctrl)
//	ebiten.SetWindowResizable(true)
//	if err := ebiten.RunGame(board); err != nil {
//		log.Fatal(err)
//	}
package ebitenboard

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/pinboard"
)

// Option configures a Board.
type Option func(*Board)

// WithScript replays s one step per frame before live input.
func WithScript(s *pinboard.Script) Option { return func(b *Board) { b.script = s } }

// WithStats shows the FPS and board statistics overlay.
func WithStats(show bool) Option { return func(b *Board) { b.showStats = show } }

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option { return func(b *Board) { b.log = l } }

// Board is an ebiten.Game driving one controller.
type Board struct {
	c         *pinboard.Controller
	script    *pinboard.Script
	showStats bool
	log       *slog.Logger

	input inputState
	theme Theme

	width, height int
}

var _ ebiten.Game = (*Board)(nil)

// New creates a board for c.
func New(c *pinboard.Controller, opts ...Option) *Board {
	b := &Board{c: c, log: slog.Default(), theme: DefaultTheme()}
	b.input.init()
	for _, o := range opts {
		o(b)
	}
	return b
}

// Controller returns the hosted controller.
func (b *Board) Controller() *pinboard.Controller { return b.c }

// Update implements ebiten.Game.
func (b *Board) Update() error {
	if b.script != nil {
		if !b.script.Step(b.c) {
			b.log.Info("script finished", "steps", b.script.Len())
			b.script = nil
		}
	} else {
		b.input.process(b.c)
	}
	b.c.Tick(1 / float32(ebiten.TPS()))
	return nil
}

// Draw implements ebiten.Game.
func (b *Board) Draw(screen *ebiten.Image) {
	drawBoard(screen, b.c, &b.theme)
	if b.showStats {
		drawStats(screen, b.c)
	}
	b.c.ClearDirty()
}

// Layout implements ebiten.Game. The viewport follows the window size.
func (b *Board) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != b.width || outsideHeight != b.height {
		b.width, b.height = outsideWidth, outsideHeight
		b.c.SetViewport(pinboard.Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)})
	}
	return outsideWidth, outsideHeight
}
