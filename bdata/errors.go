package bdata

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/52Jolynn/bindb/file"
)

var (
	//非法参数
	ErrInvalidInput = errors.New("invalid BIN, must be at least 6 characters")
	//数据加载中
	ErrNotReady = errors.New("bin data is still loading")
	//数据加载失败
	ErrUnavailable = errors.New("bin data failed to load")
)

// LoadError reports why the data file could not be loaded.
type LoadError struct {
	Path string
	Op   string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load bin data %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *LoadError) Cause() error { return e.Err }

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) IsNotExist() bool {
	return file.IsNotExist(e.Err)
}

func newLoadError(path, op string, err error) *LoadError {
	return &LoadError{Path: path, Op: op, Err: err}
}
