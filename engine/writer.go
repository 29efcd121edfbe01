package engine

import (
	"archive/tar"
	"encoding/xml"
	"io/fs"
	"os"
	"path/filepath"

	kgzip "github.com/klauspost/compress/gzip"

	catalog "github.com/asgen/cataloggen"
)

// writeCatalog serializes apps to "<OutputDir>/<basename>.xml.gz", origin
// set to basename and API version to the configured value (spec §4.8 step
// 4 "process").
func writeCatalog(apps []*catalog.App, cfg Config) error {
	doc := xmlDocument{
		Version: cfg.ApiVersion,
		Origin:  cfg.Basename,
	}
	for _, a := range apps {
		if a.HasVeto() {
			continue
		}
		doc.Apps = append(doc.Apps, toXMLApp(a))
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return catalog.NewError("engine.writeCatalog", catalog.ErrIO, cfg.OutputDir, err)
	}
	path := filepath.Join(cfg.OutputDir, cfg.Basename+".xml.gz")
	f, err := os.Create(path)
	if err != nil {
		return catalog.NewError("engine.writeCatalog", catalog.ErrIO, path, err)
	}
	defer f.Close()

	zw := kgzip.NewWriter(f)
	defer zw.Close()

	if _, err := zw.Write([]byte(xml.Header)); err != nil {
		return catalog.NewError("engine.writeCatalog", catalog.ErrIO, path, err)
	}
	enc := xml.NewEncoder(zw)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return catalog.NewError("engine.writeCatalog", catalog.ErrIO, path, err)
	}
	return nil
}

// writeIconArchive tars and gzips every file under "<TempDir>/icons/" into
// "<OutputDir>/<basename>-icons.tar.gz" (spec §4.8 step 4, §6 persisted
// state). A missing icons directory (no App had an icon) is not an error.
func writeIconArchive(cfg Config) error {
	srcDir := filepath.Join(cfg.TempDir, "icons")
	if _, err := os.Stat(srcDir); err != nil {
		return nil
	}

	path := filepath.Join(cfg.OutputDir, cfg.Basename+"-icons.tar.gz")
	f, err := os.Create(path)
	if err != nil {
		return catalog.NewError("engine.writeIconArchive", catalog.ErrIO, path, err)
	}
	defer f.Close()

	zw := kgzip.NewWriter(f)
	defer zw.Close()
	tw := tar.NewWriter(zw)
	defer tw.Close()

	return filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = rel
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		_, err = tw.Write(data)
		return err
	})
}
