package partition

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalFileSystem walks a table root on the local (or mounted network)
// filesystem. Used in development and by tests; production deployments
// typically register S3FileSystem instead.
type LocalFileSystem struct{}

func (LocalFileSystem) Walk(ctx context.Context, root string) ([]RawFile, error) {
	var files []RawFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relDir := filepath.Dir(rel)
		if relDir == "." {
			relDir = ""
		}
		files = append(files, RawFile{
			Path:    path,
			RelDir:  filepath.ToSlash(relDir),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return files, nil
}
