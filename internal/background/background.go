// Package background keeps one background actor per monitor under the
// background group and rebuilds the set whenever the monitor layout changes.
package background

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/1broseidon/deskfx/internal/scene"
)

// DefaultSeed is the fixed seed for background colors.
const DefaultSeed uint64 = 123456

// Display is the monitor query surface the manager reads on every rebuild.
type Display interface {
	MonitorCount() int
	MonitorGeometry(index int) scene.Rect
}

// Vignette is the darkening applied toward the edges of a background.
type Vignette struct {
	Enabled    bool    `json:"enabled"`
	Brightness float64 `json:"brightness"`
	Strength   float64 `json:"strength"`
}

// DefaultVignette returns the stock vignette.
func DefaultVignette() Vignette {
	return Vignette{Enabled: true, Brightness: 0.5, Strength: 0.5}
}

// Content is attached to each background actor and read by the renderer.
type Content struct {
	Monitor  int
	Color    colorful.Color
	Vignette Vignette
}

// Background describes one built background actor.
type Background struct {
	Monitor  int           `json:"monitor"`
	Actor    scene.ActorID `json:"actor"`
	Geometry scene.Rect    `json:"geometry"`
	Color    string        `json:"color"`
	Vignette Vignette      `json:"vignette"`
}

// Options configures a Manager.
type Options struct {
	Seed     uint64
	Vignette Vignette
	Logger   *slog.Logger
	// OnRebuild, when set, is called with the number of backgrounds after
	// every rebuild.
	OnRebuild func(count int)
}

// Manager owns the children of the background group.
type Manager struct {
	root      *scene.Actor
	seed      uint64
	vignette  Vignette
	logger    *slog.Logger
	onRebuild func(int)

	current []Background
}

// NewManager returns a manager building backgrounds under root.
func NewManager(root *scene.Actor, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		root:      root,
		seed:      opts.Seed,
		vignette:  opts.Vignette,
		logger:    logger,
		onRebuild: opts.OnRebuild,
	}
}

// Root returns the background group.
func (m *Manager) Root() *scene.Actor { return m.root }

// Rebuild destroys every current background and creates one per monitor,
// in monitor order. The color generator is reseeded on every call so the
// same layout always yields the same colors. Zero-area monitors still get a
// (zero-area) background.
func (m *Manager) Rebuild(display Display) []Background {
	m.root.DestroyAllChildren()
	m.current = nil

	count := 0
	if display != nil {
		count = display.MonitorCount()
	}
	rng := rand.New(rand.NewPCG(m.seed, m.seed))

	for i := 0; i < count; i++ {
		rect := display.MonitorGeometry(i)
		color := colorful.Color{
			R: float64(rng.IntN(255)) / 255,
			G: float64(rng.IntN(255)) / 255,
			B: float64(rng.IntN(255)) / 255,
		}

		actor := m.root.Stage().NewActor(fmt.Sprintf("background-%d", i))
		actor.SetGeometry(rect)
		actor.SetContent(&Content{Monitor: i, Color: color, Vignette: m.vignette})
		actor.Show()
		if err := m.root.AddChild(actor); err != nil {
			m.logger.Warn("failed to add background actor", "monitor", i, "error", err)
			actor.Destroy()
			continue
		}

		m.current = append(m.current, Background{
			Monitor:  i,
			Actor:    actor.ID(),
			Geometry: rect,
			Color:    color.Hex(),
			Vignette: m.vignette,
		})
	}

	m.logger.Info("backgrounds rebuilt", "monitors", count, "backgrounds", len(m.current))
	if m.onRebuild != nil {
		m.onRebuild(len(m.current))
	}
	return m.Backgrounds()
}

// Backgrounds returns the current set.
func (m *Manager) Backgrounds() []Background {
	out := make([]Background, len(m.current))
	copy(out, m.current)
	return out
}
