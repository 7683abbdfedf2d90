//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package export

import (
	"context"
	"fmt"
)

// PortalChooser is unavailable on this platform.
type PortalChooser struct {
	ParentWindow string
}

func (PortalChooser) ChooseSavePath(context.Context, Request) (string, error) {
	return "", fmt.Errorf("%w: portal save dialog is not supported on this platform", ErrUnavailable)
}
