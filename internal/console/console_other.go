//go:build !unix && !windows

package console

import (
	"errors"
	"os"
)

var errUnsupported = errors.New("interactive console is not supported on this platform")

func openInput() (Source, func() error, error) {
	return nil, nil, errUnsupported
}

func prepareOutput(*os.File) (func() error, error) {
	return nil, errUnsupported
}
