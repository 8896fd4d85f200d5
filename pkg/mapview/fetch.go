package mapview

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
)

// WorldGeoJSONURL is the country-outline dataset the basemap is built from.
const WorldGeoJSONURL = "https://raw.githubusercontent.com/johan/world.geo.json/master/countries.geo.json"

// LoadBasemap returns the parsed country outlines, downloading the GeoJSON
// into cacheDir on first run and reading the cached copy afterwards.
func LoadBasemap(cacheDir string) (*Basemap, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	localPath := filepath.Join(cacheDir, "countries.geo.json")

	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		log.Printf("Downloading basemap from %s", WorldGeoJSONURL)
		if err := downloadFile(WorldGeoJSONURL, localPath); err != nil {
			return nil, err
		}
	} else {
		log.Printf("Using cached basemap: %s", localPath)
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read basemap: %w", err)
	}
	return NewBasemap(data)
}

// downloadFile fetches a URL into path via a temp file so a partial
// download never ends up at the final name.
func downloadFile(url, path string) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing response body: %v", err)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()
	defer func() {
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			log.Printf("Error removing temp file %s: %v", tmpName, err)
		}
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
