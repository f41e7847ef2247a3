//go:build !windows

package clip

import "errors"

func setDIB(_ []byte) error {
	return errors.New("CF_DIB is only available on Windows")
}
