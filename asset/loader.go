package asset

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gruntwork-io/go-commons/errors"
)

// DefaultScore is the embedded score used when no score path is configured.
const DefaultScore = "songs/default.star"

//go:embed songs
var embedded embed.FS

// AssetNotFoundError is returned when no loader has the requested asset.
type AssetNotFoundError struct {
	Path string
}

func (err AssetNotFoundError) Error() string {
	return fmt.Sprintf("asset not found: %s", err.Path)
}

// Loader returns the contents of named assets. Names use forward slashes.
type Loader interface {
	Open(name string) ([]byte, error)
}

// FSLoader reads assets from an fs.FS.
type FSLoader struct {
	FS fs.FS
}

func (l FSLoader) Open(name string) ([]byte, error) {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	data, err := fs.ReadFile(l.FS, clean)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithStackTrace(AssetNotFoundError{Path: name})
		}
		return nil, errors.WithStackTrace(err)
	}
	return data, nil
}

// DirLoader reads assets from a directory on disk.
type DirLoader struct {
	Root string
}

func (l DirLoader) Open(name string) ([]byte, error) {
	return FSLoader{FS: os.DirFS(filepath.Clean(l.Root))}.Open(name)
}

// Embedded returns a loader over the assets compiled into the binary.
func Embedded() Loader {
	return FSLoader{FS: embedded}
}

// Chain tries each loader in turn and returns the first asset found.
type Chain []Loader

func (c Chain) Open(name string) ([]byte, error) {
	for _, l := range c {
		data, err := l.Open(name)
		if err == nil {
			return data, nil
		}
		if _, notFound := errors.Unwrap(err).(AssetNotFoundError); !notFound {
			return nil, err
		}
	}
	return nil, errors.WithStackTrace(AssetNotFoundError{Path: name})
}

// NewLoader creates the loader used by the runner: assets under root take priority over the embedded ones. An
// empty root means only embedded assets are available.
func NewLoader(root string) Loader {
	if root == "" {
		return Embedded()
	}
	return Chain{DirLoader{Root: root}, Embedded()}
}
