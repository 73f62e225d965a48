package file

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// SearchDir walks dir recursively and returns the paths accepted by filter,
// in lexical order.
func SearchDir(fs afero.Fs, dir string, filter func(filepath string) bool) ([]string, error) {
	var (
		fileInfos []os.FileInfo
		err       error
	)
	if fileInfos, err = afero.ReadDir(fs, dir); err != nil {
		return nil, errors.Wrapf(err, "read dir %s", dir)
	}
	sort.Slice(fileInfos, func(i, j int) bool { return fileInfos[i].Name() < fileInfos[j].Name() })

	result := make([]string, 0, 16)
	for _, fileInfo := range fileInfos {
		path := filepath.Join(dir, fileInfo.Name())
		if fileInfo.IsDir() {
			var filepaths []string
			if filepaths, err = SearchDir(fs, path, filter); err != nil {
				return nil, err
			}
			result = append(result, filepaths...)
		} else if filter(path) {
			result = append(result, path)
		}
	}
	return result, nil
}

// Resolve turns a data path into a file path. A directory resolves to
// preferred inside it, or else to the first file with extension ext.
func Resolve(fs afero.Fs, path, preferred, ext string) (string, error) {
	var (
		fileInfo os.FileInfo
		err      error
	)
	if fileInfo, err = fs.Stat(path); err != nil {
		return "", err
	}
	if !fileInfo.IsDir() {
		return path, nil
	}

	candidate := filepath.Join(path, preferred)
	if ok, _ := afero.Exists(fs, candidate); ok {
		return candidate, nil
	}

	var filepaths []string
	if filepaths, err = SearchDir(fs, path, func(p string) bool {
		return filepath.Ext(p) == ext
	}); err != nil {
		return "", err
	}
	if len(filepaths) == 0 {
		return "", errors.Wrapf(os.ErrNotExist, "no %s file in %s", ext, path)
	}
	return filepaths[0], nil
}

// Open resolves path and opens the result for reading.
func Open(fs afero.Fs, path, preferred, ext string) (afero.File, string, error) {
	var (
		resolved string
		f        afero.File
		err      error
	)
	if resolved, err = Resolve(fs, path, preferred, ext); err != nil {
		return nil, "", err
	}
	if f, err = fs.Open(resolved); err != nil {
		return nil, resolved, err
	}
	return f, resolved, nil
}

// IsNotExist reports whether err, or its cause, says the file is missing.
func IsNotExist(err error) bool {
	if err == nil {
		return false
	}
	return os.IsNotExist(errors.Cause(err))
}
