package generator

import (
	"io/fs"
	"os"

	"github.com/wonseok-han/indexgen/internal/filelock"
)

// FileSystem is the file access the walker needs. Paths are OS paths.
type FileSystem interface {
	ReadDir(dir string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	// WriteFile stores data at path and reports whether the file changed.
	WriteFile(path string, data []byte) (bool, error)
}

// OSFileSystem reads from the local disk and writes index files atomically.
type OSFileSystem struct{}

func (OSFileSystem) ReadDir(dir string) ([]fs.DirEntry, error) {
	return os.ReadDir(dir)
}

func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFileSystem) WriteFile(path string, data []byte) (bool, error) {
	return filelock.WriteIfChanged(path, data)
}
