package swatch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/swatch/catalog"
	"github.com/gogpu/swatch/composite"
	"github.com/gogpu/swatch/pattern"
	"github.com/gogpu/swatch/raster"
)

// PreferencesNamespace is the fixed key under which sessions persist their
// choices.
const PreferencesNamespace = "swatch.session.v1"

// Preferences are the persisted configuration choices of a session.
// Pixel buffers, the mask and the undo history are never persisted.
type Preferences struct {
	Material string `json:"material,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
	Grout    string `json:"grout,omitempty"`
	Scene    string `json:"scene,omitempty"`
	SizeMode string `json:"sizeMode,omitempty"`
}

// Status is a snapshot of session state for a control surface.
type Status struct {
	Photo      bool           `json:"photo"`
	Scene      string         `json:"scene,omitempty"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Edges      int            `json:"edges"`
	Material   string         `json:"material,omitempty"`
	Pattern    string         `json:"pattern"`
	Grout      string         `json:"grout"`
	SizeMode   string         `json:"sizeMode"`
	View       composite.View `json:"view"`
	Tolerance  int            `json:"tolerance"`
	Policy     string         `json:"policy"`
	Cursor     int            `json:"cursor"`
	History    int            `json:"history"`
	CanUndo    bool           `json:"canUndo"`
	CanRedo    bool           `json:"canRedo"`
	Selected   int            `json:"selected"`
	Processing bool           `json:"processing"`
	Ready      bool           `json:"ready"`
}

// Session is one editing session: a base photo, its edge map, the
// selection history, the chosen material and pattern, and the texture
// cache. All methods are safe for concurrent use; clicks are serialized
// and a click that arrives while another is processing fails with ErrBusy.
type Session struct {
	opts       options
	cache      *pattern.Cache
	prefetch   *pattern.Prefetcher
	compositor *composite.Compositor

	processing atomic.Bool
	ready      atomic.Bool
	readyTimer *time.Timer

	mu        sync.Mutex
	closed    bool
	scene     string
	photo     *raster.Pixmap
	edges     *EdgeMap
	history   History
	material  pattern.Material
	cfg       pattern.Config
	view      composite.View
	tolerance int
	policy    Policy

	// beforeSegment runs after a click has taken its snapshot; tests use
	// it to hold a click mid-flight.
	beforeSegment func()
}

// NewSession returns an empty session: no photo, no material, stretcher
// bond with white grout.
func NewSession(opts ...Option) *Session {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.synth == nil {
		o.synth = pattern.NewSynthesizer()
	}

	s := &Session{
		opts:       o,
		cache:      pattern.NewCache(o.synth, o.cacheSize),
		compositor: composite.New(o.composite),
		cfg:        pattern.Config{Bond: pattern.BondStretcher, Grout: color.NRGBA{R: 0xf4, G: 0xf3, B: 0xee, A: 255}},
		view:       composite.DefaultView(),
		tolerance:  o.tolerance,
	}
	s.prefetch = pattern.NewPrefetcher(s.cache, o.debounce)

	if o.modelDelay == 0 {
		s.ready.Store(true)
	} else {
		s.readyTimer = time.AfterFunc(o.modelDelay, func() { s.ready.Store(true) })
	}
	return s
}

// Close stops background synthesis. The session rejects further edits.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	if s.readyTimer != nil {
		s.readyTimer.Stop()
	}
	s.prefetch.Close()
}

// Ready reports whether the cosmetic model-loading delay has elapsed.
// Segmentation does not depend on it.
func (s *Session) Ready() bool { return s.ready.Load() }

// LoadPhoto replaces the base photo, rebuilds the edge map and clears the
// selection history. scene identifies a gallery scene and may be empty for
// uploads.
func (s *Session) LoadPhoto(scene string, photo *raster.Pixmap) error {
	if photo.Empty() {
		return fmt.Errorf("%w: empty photo", raster.ErrDecode)
	}
	start := time.Now()
	edges := BuildEdgeMap(photo, s.opts.edgeThreshold)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.scene = scene
	s.photo = photo
	s.edges = edges
	s.history.Reset()

	Logger().Info("swatch: photo loaded",
		"scene", scene,
		"size", photo.Bounds().Size(),
		"edges", edges.Count(),
		"elapsed", time.Since(start))
	return nil
}

// SetMaterial selects the swatch to render and starts background synthesis
// of its texture.
func (s *Session) SetMaterial(m pattern.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.material = m
	s.prefetch.Schedule(m, s.cfg)
}

// SetPattern selects bond, grout and size mode and starts background
// synthesis for the current material.
func (s *Session) SetPattern(cfg pattern.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cfg = cfg
	s.prefetch.Schedule(s.material, cfg)
}

// SetView sets the texture scale and rotation.
func (s *Session) SetView(v composite.View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

// SetTolerance sets the click tolerance, clamped to [1, 100].
func (s *Session) SetTolerance(t int) {
	s.mu.Lock()
	s.tolerance = ClampTolerance(t)
	s.mu.Unlock()
}

// SetPolicy sets how the next click merges into the selection.
func (s *Session) SetPolicy(p Policy) {
	s.mu.Lock()
	s.policy = p
	s.mu.Unlock()
}

// Click grows a region from pt (image coordinates) and merges it into the
// selection with the current policy. It returns the resulting selection.
//
// A click that selects nothing leaves the selection and history unchanged
// and returns the empty region. ErrBusy is returned while another click is
// processing; ErrNoPhoto when no photo is loaded. Segmentation runs without
// holding the session lock, so Status and Frame stay responsive; if the
// photo is replaced meanwhile the region is dropped with ErrPhotoChanged.
func (s *Session) Click(ctx context.Context, pt image.Point) (*raster.Mask, error) {
	if !s.processing.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.processing.Store(false)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	photo, edges := s.photo, s.edges
	tolerance, policy := s.tolerance, s.policy
	s.mu.Unlock()
	if photo == nil {
		return nil, ErrNoPhoto
	}

	if s.beforeSegment != nil {
		s.beforeSegment()
	}
	start := time.Now()
	region := Segment(photo, edges, pt, tolerance, WithBlurSigma(s.opts.blurSigma))
	n := region.Count()
	Logger().Debug("swatch: region grown",
		"seed", pt,
		"tolerance", tolerance,
		"policy", policy.String(),
		"pixels", n,
		"elapsed", time.Since(start))
	if n == 0 {
		return region, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.photo != photo {
		// The photo was replaced while the region grew; it belongs to the
		// old one.
		return nil, ErrPhotoChanged
	}
	next := Combine(s.history.Current(), region, policy)
	s.history.Apply(next)
	return next, nil
}

// Undo steps the selection back. It reports false at the start of history.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Undo()
}

// Redo steps the selection forward. It reports false at the newest edit.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Redo()
}

// Reset clears the selection and its history.
func (s *Session) Reset() {
	s.mu.Lock()
	s.history.Reset()
	s.mu.Unlock()
}

// Mask returns the displayed selection, or nil.
func (s *Session) Mask() *raster.Mask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Current()
}

// Frame renders the composite frame. Without a selection or a material it
// is a copy of the photo. If the texture cannot be synthesized the raw
// material image is tiled instead.
func (s *Session) Frame(ctx context.Context) (*raster.Pixmap, error) {
	s.mu.Lock()
	photo, mask := s.photo, s.history.Current()
	m, cfg, view := s.material, s.cfg, s.view
	s.mu.Unlock()

	if photo == nil {
		return nil, ErrNoPhoto
	}
	if mask == nil || m.Image.Empty() {
		return photo.Clone(), nil
	}

	tex, err := s.cache.Texture(ctx, m, cfg)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		Logger().Warn("swatch: texture synthesis failed, using raw material", "material", m.ID, "err", err)
		tex = m.Image
	}
	return s.compositor.Render(photo, mask, tex, view), nil
}

// Texture returns the synthesized texture for the current material and
// pattern.
func (s *Session) Texture(ctx context.Context) (*raster.Pixmap, error) {
	s.mu.Lock()
	m, cfg := s.material, s.cfg
	s.mu.Unlock()
	return s.cache.Texture(ctx, m, cfg)
}

// WaitPrefetch blocks until background synthesis has settled.
func (s *Session) WaitPrefetch() { s.prefetch.Wait() }

// Preferences returns the choices worth persisting.
func (s *Session) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Preferences{
		Material: s.material.ID,
		Pattern:  s.cfg.Bond.String(),
		Grout:    catalog.FormatGrout(s.cfg.Grout),
		Scene:    s.scene,
		SizeMode: s.cfg.SizeMode.String(),
	}
}

// ApplyPreferences restores pattern choices from p. Invalid fields are
// logged and skipped. Material and scene must be loaded by the caller, since
// they need image fetches.
func (s *Session) ApplyPreferences(p Preferences) {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()

	if p.Pattern != "" {
		if b, err := pattern.ParseBond(p.Pattern); err == nil {
			cfg.Bond = b
		} else {
			Logger().Warn("swatch: ignoring saved pattern", "err", err)
		}
	}
	if p.Grout != "" {
		if c, err := catalog.ParseGrout(p.Grout); err == nil {
			cfg.Grout = c
		} else {
			Logger().Warn("swatch: ignoring saved grout", "err", err)
		}
	}
	if p.SizeMode != "" {
		cfg.SizeMode = pattern.ParseSizeMode(p.SizeMode)
	}
	s.SetPattern(cfg)
	Logger().Info("swatch: preferences restored", "pattern", cfg.Bond.String(), "material", p.Material, "scene", p.Scene)
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Scene:      s.scene,
		Material:   s.material.ID,
		Pattern:    s.cfg.Bond.String(),
		Grout:      catalog.FormatGrout(s.cfg.Grout),
		SizeMode:   s.cfg.SizeMode.String(),
		View:       s.view,
		Tolerance:  s.tolerance,
		Policy:     s.policy.String(),
		Cursor:     s.history.Cursor(),
		History:    s.history.Len(),
		CanUndo:    s.history.CanUndo(),
		CanRedo:    s.history.CanRedo(),
		Selected:   s.history.Current().Count(),
		Processing: s.processing.Load(),
		Ready:      s.ready.Load(),
	}
	if s.photo != nil {
		st.Photo = true
		st.Width, st.Height = s.photo.Width(), s.photo.Height()
		st.Edges = s.edges.Count()
	}
	return st
}
