package engine

import (
	"compress/gzip"
	"encoding/xml"
	"os"

	catalog "github.com/asgen/cataloggen"
)

// loadOldCatalog reads a previously-written gzipped catalog, returning its
// Apps rehydrated enough to serve as find_in_cache hits (spec §4.8 step 1
// "load it into the cache store").
func loadOldCatalog(path string) ([]*catalog.App, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, catalog.NewError("engine.loadOldCatalog", catalog.ErrIO, path, err)
	}
	defer zr.Close()

	var doc xmlDocument
	if err := xml.NewDecoder(zr).Decode(&doc); err != nil {
		return nil, catalog.NewError("engine.loadOldCatalog", catalog.ErrValidation, path, err)
	}

	apps := make([]*catalog.App, 0, len(doc.Apps))
	for _, x := range doc.Apps {
		apps = append(apps, fromXMLApp(x))
	}
	return apps, nil
}

// indexByCacheID groups apps by their X-CreaterepoAsCacheID metadata
// value, the lookup findInCache performs (spec §4.8 step 5).
func indexByCacheID(apps []*catalog.App) map[string][]*catalog.App {
	out := make(map[string][]*catalog.App)
	for _, a := range apps {
		key, ok := a.Metadata[catalog.CacheIDMetadataKey]
		if !ok {
			continue
		}
		out[key] = append(out[key], a)
	}
	return out
}
