package task

import (
	"fmt"
	"os"
	"path/filepath"

	catalog "github.com/asgen/cataloggen"
	"github.com/asgen/cataloggen/imaging"
	"github.com/asgen/cataloggen/pkgset"
)

// SaveResources materializes an App's images to disk (spec §4.7 step 8
// "save_resources()"): the fixed screenshot thumbnail matrix for every
// locally-rendered screenshot, and the decoded icon pixbuf if one was set
// by an extraction plugin. This lives in task rather than catalog because
// catalog must not import imaging (see the import-graph notes in DESIGN.md).
func SaveResources(app *catalog.App, cfg Config) error {
	for _, ss := range app.Screenshots {
		if err := saveScreenshot(ss, app, cfg); err != nil {
			return err
		}
	}
	if app.Pixbuf != nil {
		if err := saveIcon(app, cfg); err != nil {
			return err
		}
	}
	return nil
}

func saveScreenshot(ss *catalog.Screenshot, app *catalog.App, cfg Config) error {
	var source *catalog.Image
	for i := range ss.Images {
		if ss.Images[i].Kind == catalog.ImageSource && ss.Images[i].Pixels != nil {
			source = &ss.Images[i]
			break
		}
	}
	if source == nil {
		return nil
	}

	for _, size := range catalog.ScreenshotMatrix {
		data, err := imaging.Thumbnail(source.Pixels, size.W, size.H)
		if err != nil {
			app.Pkg.Log(pkgset.Warning, "thumbnail %dx%d for %s failed: %v", size.W, size.H, app.ID, err)
			continue
		}
		if ss.Basename == "" {
			ss.Basename = catalog.ScreenshotBasename(app.ID, data)
		}
		dir := filepath.Join(cfg.OutputDir, "screenshots", fmt.Sprintf("%dx%d", size.W, size.H))
		path := filepath.Join(dir, ss.Basename)
		if _, err := os.Stat(path); err == nil {
			// Spec P4: do not re-emit a thumbnail that is already on disk.
			ss.Images = append(ss.Images, catalog.Image{
				Width: size.W, Height: size.H,
				Kind:     catalog.ImageThumbnail,
				Basename: ss.Basename,
			})
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return catalog.NewError("task.saveScreenshot", catalog.ErrIO, dir, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return catalog.NewError("task.saveScreenshot", catalog.ErrIO, path, err)
		}
		ss.Images = append(ss.Images, catalog.Image{
			Width: size.W, Height: size.H,
			Kind:     catalog.ImageThumbnail,
			Basename: ss.Basename,
		})
	}
	return nil
}

func saveIcon(app *catalog.App, cfg Config) error {
	data, err := imaging.EncodePNG(app.Pixbuf)
	if err != nil {
		return catalog.NewError("task.saveIcon", catalog.ErrValidation, app.ID, err)
	}
	dir := filepath.Join(cfg.TempDir, "icons")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return catalog.NewError("task.saveIcon", catalog.ErrIO, dir, err)
	}
	path := filepath.Join(dir, app.ID+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return catalog.NewError("task.saveIcon", catalog.ErrIO, path, err)
	}
	if app.Icon == nil {
		app.Icon = &catalog.Icon{Name: app.ID, Kind: catalog.IconCached}
	}
	return nil
}
