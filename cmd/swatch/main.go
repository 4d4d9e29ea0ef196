// Command swatch renders a surface preview from a photo and a material
// swatch and writes it as a watermarked image or PDF sheet.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/swatch"
	"github.com/gogpu/swatch/catalog"
	"github.com/gogpu/swatch/composite"
	"github.com/gogpu/swatch/config"
	"github.com/gogpu/swatch/export"
	"github.com/gogpu/swatch/pattern"
	"github.com/gogpu/swatch/raster"
)

// points collects repeated -at flags.
type points []string

func (p *points) String() string { return strings.Join(*p, " ") }

func (p *points) Set(v string) error {
	if _, _, err := parsePoint(v); err != nil {
		return err
	}
	*p = append(*p, v)
	return nil
}

func parsePoint(v string) (float64, float64, error) {
	xs, ys, ok := strings.Cut(v, ",")
	if !ok {
		return 0, 0, fmt.Errorf("point %q: want x,y", v)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", v, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", v, err)
	}
	return x, y, nil
}

func main() {
	var at points
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		photoRef   = flag.String("photo", "", "scene photo (path or URL)")
		materialID = flag.String("material-id", "material", "material name for captions")
		material   = flag.String("material", "", "material swatch (path or URL)")
		size       = flag.String("size", "", "material unit size, e.g. 215mm x 65mm")
		bond       = flag.String("pattern", "stretcher", "stretcher, stack, flemish or herringbone")
		grout      = flag.String("grout", "white", "grout colour name or hex")
		sizeMode   = flag.String("size-mode", "standard", "standard or linear")
		tolerance  = flag.Int("tolerance", 0, "colour tolerance 1..100 (0 uses config)")
		policy     = flag.String("policy", "add", "how clicks combine: replace, add or subtract")
		scale      = flag.Float64("scale", 1, "texture scale")
		rotation   = flag.Float64("rotate", 0, "texture rotation in degrees")
		output     = flag.String("output", "preview.png", "output file (.png, .jpg or .pdf)")
		plain      = flag.Bool("no-watermark", false, "skip the watermark")
	)
	flag.Var(&at, "at", "seed point x,y in image pixels (repeatable)")
	flag.Parse()

	if *photoRef == "" || *material == "" || len(at) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *tolerance > 0 {
		cfg.Segment.Tolerance = *tolerance
	}
	cfg.Server.ModelDelay = 0

	pol, err := swatch.ParsePolicy(*policy)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := pattern.ParseBond(*bond); err != nil {
		log.Fatal(err)
	}
	if _, err := catalog.ParseGrout(*grout); err != nil {
		log.Fatal(err)
	}
	format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(*output), "."))
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	loader := catalog.NewLoader(cfg.Server.FetchTimeout)
	var (
		photo *raster.Pixmap
		mat   pattern.Material
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		photo, err = loader.Fetch(gctx, *photoRef)
		return err
	})
	g.Go(func() error {
		var err error
		mat, err = loader.Material(gctx, *materialID, *material, *size)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("Failed to load images: %v", err)
	}

	sess := swatch.NewSession(cfg.SessionOptions()...)
	defer sess.Close()

	if err := sess.LoadPhoto(filepath.Base(*photoRef), photo); err != nil {
		log.Fatal(err)
	}
	sess.ApplyPreferences(swatch.Preferences{Pattern: *bond, Grout: *grout, SizeMode: *sizeMode})
	sess.SetMaterial(mat)
	sess.SetView(composite.View{Scale: *scale, Rotation: *rotation})

	for i, v := range at {
		x, y, _ := parsePoint(v)
		if i > 0 {
			sess.SetPolicy(pol)
		}
		if _, err := sess.Click(ctx, swatch.DisplayToImage(x, y, 1)); err != nil {
			log.Fatalf("Failed to select at %s: %v", v, err)
		}
	}

	frame, err := sess.Frame(ctx)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}
	if !*plain {
		marker, err := export.NewWatermarker(cfg.Export.Watermark, cfg.Export.FontSize)
		if err != nil {
			log.Fatal(err)
		}
		if frame, err = marker.Apply(frame); err != nil {
			log.Fatal(err)
		}
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}
	switch format {
	case export.FormatJPEG:
		err = export.EncodeJPEG(f, frame, cfg.Export.JPEGQuality)
	case export.FormatPDF:
		prefs := sess.Preferences()
		err = export.EncodePDF(f, frame, export.Sheet{
			Title:     "Surface preview: " + prefs.Scene,
			Lines:     []string{"Material: " + prefs.Material, "Pattern: " + prefs.Pattern, "Grout: " + prefs.Grout},
			Watermark: cfg.Export.Watermark,
		})
	default:
		err = export.EncodePNG(f, frame)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	st := sess.Status()
	log.Printf("Preview saved to %s (%dx%d, %d pixels selected)\n", *output, st.Width, st.Height, st.Selected)
}
