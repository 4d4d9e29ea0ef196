package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/swatch"
	"github.com/gogpu/swatch/catalog"
	"github.com/gogpu/swatch/composite"
	"github.com/gogpu/swatch/export"
	"github.com/gogpu/swatch/pattern"
	"github.com/gogpu/swatch/raster"
)

// maxUpload bounds request bodies carrying photos.
const maxUpload = 32 << 20

type ctxKey struct{}

type sessionRef struct {
	id      string
	session *swatch.Session
}

func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess := s.lookup(id)
		if sess == nil {
			writeError(w, http.StatusNotFound, fmt.Errorf("session %q not found", id))
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, sessionRef{id: id, session: sess})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) sessionRef {
	return r.Context().Value(ctxKey{}).(sessionRef)
}

type createRequest struct {
	Restore string `json:"restore,omitempty"`
}

type createResponse struct {
	ID          string             `json:"id"`
	Restored    bool               `json:"restored"`
	Preferences swatch.Preferences `json:"preferences"`
	Status      swatch.Status      `json:"status"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id, sess := s.create()
	resp := createResponse{ID: id}
	if req.Restore != "" && s.store != nil {
		prefs, ok, err := s.store.LoadPreferences(r.Context(), req.Restore)
		if err != nil {
			swatch.Logger().Warn("server: load preferences", "owner", req.Restore, "err", err)
		}
		if ok {
			sess.ApplyPreferences(prefs)
			resp.Restored = true
			s.savePreferences(r.Context(), id, sess)
		}
	}
	resp.Preferences = sess.Preferences()
	resp.Status = sess.Status()
	swatch.Logger().Info("server: session created", "session", id, "restored", resp.Restored)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).session.Status())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.remove(sessionFrom(r).id)
	w.WriteHeader(http.StatusNoContent)
}

type materialRequest struct {
	ID   string `json:"id"`
	Ref  string `json:"ref"`
	Size string `json:"size,omitempty"`
}

type loadRequest struct {
	Scene    string           `json:"scene,omitempty"`
	Photo    string           `json:"photo,omitempty"`
	Material *materialRequest `json:"material,omitempty"`
}

// handleLoad fetches the scene photo and the material swatch concurrently.
// Nothing is applied unless every fetch succeeds.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	ref := sessionFrom(r)
	var req loadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Photo == "" && req.Material == nil {
		writeError(w, http.StatusBadRequest, errors.New("nothing to load"))
		return
	}
	if req.Material != nil && (req.Material.ID == "" || req.Material.Ref == "") {
		writeError(w, http.StatusBadRequest, errors.New("material needs id and ref"))
		return
	}

	var (
		photo    *raster.Pixmap
		material pattern.Material
	)
	g, ctx := errgroup.WithContext(r.Context())
	if req.Photo != "" {
		g.Go(func() error {
			p, err := s.loader.Fetch(ctx, req.Photo)
			if err != nil {
				return fmt.Errorf("scene: %w", err)
			}
			photo = p
			return nil
		})
	}
	if m := req.Material; m != nil {
		g.Go(func() error {
			mat, err := s.loader.Material(ctx, m.ID, m.Ref, m.Size)
			if err != nil {
				return err
			}
			material = mat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	if photo != nil {
		if err := ref.session.LoadPhoto(req.Scene, photo); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
	}
	if req.Material != nil {
		ref.session.SetMaterial(material)
	}
	s.savePreferences(r.Context(), ref.id, ref.session)
	writeJSON(w, http.StatusOK, ref.session.Status())
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ref := sessionFrom(r)
	photo, err := raster.Decode(http.MaxBytesReader(w, r.Body, maxUpload))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if err := ref.session.LoadPhoto(r.URL.Query().Get("scene"), photo); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	s.savePreferences(r.Context(), ref.id, ref.session)
	writeJSON(w, http.StatusOK, ref.session.Status())
}

type patternRequest struct {
	Pattern  string `json:"pattern,omitempty"`
	Grout    string `json:"grout,omitempty"`
	SizeMode string `json:"sizeMode,omitempty"`
}

func (s *Server) handlePattern(w http.ResponseWriter, r *http.Request) {
	ref := sessionFrom(r)
	var req patternRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Pattern != "" {
		if _, err := pattern.ParseBond(req.Pattern); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	if req.Grout != "" {
		if _, err := catalog.ParseGrout(req.Grout); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}
	ref.session.ApplyPreferences(swatch.Preferences{
		Pattern:  req.Pattern,
		Grout:    req.Grout,
		SizeMode: req.SizeMode,
	})
	s.savePreferences(r.Context(), ref.id, ref.session)
	writeJSON(w, http.StatusOK, ref.session.Status())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	ref := sessionFrom(r)
	v := composite.DefaultView()
	if err := decodeJSON(r, &v); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ref.session.SetView(v)
	writeJSON(w, http.StatusOK, ref.session.Status())
}

type selectionRequest struct {
	Tolerance *int    `json:"tolerance,omitempty"`
	Policy    *string `json:"policy,omitempty"`
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	ref := sessionFrom(r)
	var req selectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Policy != nil {
		p, err := swatch.ParsePolicy(*req.Policy)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		ref.session.SetPolicy(p)
	}
	if req.Tolerance != nil {
		ref.session.SetTolerance(*req.Tolerance)
	}
	writeJSON(w, http.StatusOK, ref.session.Status())
}

type clickRequest struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	DisplayScale float64 `json:"displayScale,omitempty"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	ref := sessionFrom(r)
	var req clickRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	pt := swatch.DisplayToImage(req.X, req.Y, req.DisplayScale)
	if _, err := ref.session.Click(r.Context(), pt); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, ref.session.Status())
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	ref := sessionFrom(r)
	ref.session.Undo()
	writeJSON(w, http.StatusOK, ref.session.Status())
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	ref := sessionFrom(r)
	ref.session.Redo()
	writeJSON(w, http.StatusOK, ref.session.Status())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ref := sessionFrom(r)
	ref.session.Reset()
	writeJSON(w, http.StatusOK, ref.session.Status())
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	frame, err := sessionFrom(r).session.Frame(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	w.Header().Set("Content-Type", export.FormatPNG.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	if err := export.EncodePNG(w, frame); err != nil {
		swatch.Logger().Warn("server: write frame", "err", err)
	}
}

// handleExport renders the watermarked frame as a download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ref := sessionFrom(r)
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	frame, err := ref.session.Frame(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	marked, err := s.marker.Apply(frame)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="swatch-preview%s"`, format.Ext()))
	switch format {
	case export.FormatJPEG:
		err = export.EncodeJPEG(w, marked, s.cfg.Export.JPEGQuality)
	case export.FormatPDF:
		err = export.EncodePDF(w, marked, sheetFor(ref.session, s.marker.Text()))
	default:
		err = export.EncodePNG(w, marked)
	}
	if err != nil {
		swatch.Logger().Warn("server: write export", "session", ref.id, "format", format.Ext(), "err", err)
	}
}

func sheetFor(sess *swatch.Session, watermark string) export.Sheet {
	p := sess.Preferences()
	title := "Surface preview"
	if p.Scene != "" {
		title += ": " + p.Scene
	}
	lines := []string{"Pattern: " + p.Pattern, "Grout: " + p.Grout, "Sizing: " + p.SizeMode}
	if p.Material != "" {
		lines = append([]string{"Material: " + p.Material}, lines...)
	}
	return export.Sheet{Title: title, Lines: lines, Watermark: watermark}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, swatch.ErrBusy), errors.Is(err, swatch.ErrNoPhoto), errors.Is(err, swatch.ErrPhotoChanged):
		return http.StatusConflict
	case errors.Is(err, swatch.ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, raster.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrUnsupportedScheme):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrFetch):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
