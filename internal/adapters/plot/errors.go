package plot

import "errors"

var (
	ErrNoClusters = errors.New("plot: no clusters")
	ErrRender     = errors.New("plot: render failed")
)
