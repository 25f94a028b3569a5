package tiger

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// attributeDecoder reads the .cpg sidecar next to a shapefile and returns the
// DBF attribute encoding. A missing or empty .cpg means UTF-8.
func attributeDecoder(shpPath string) (*encoding.Decoder, error) {
	cpgPath := strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".cpg"
	data, err := os.ReadFile(cpgPath)
	if os.IsNotExist(err) {
		return unicode.UTF8.NewDecoder(), nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "tiger: read .cpg")
	}

	name := strings.TrimSpace(string(data))
	if name == "" {
		return unicode.UTF8.NewDecoder(), nil
	}
	// ESRI writes bare code page numbers for Windows code pages.
	if name == "1252" {
		name = "windows-1252"
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, eris.Wrapf(err, "tiger: unsupported shapefile charset %q", name)
	}
	return enc.NewDecoder(), nil
}
