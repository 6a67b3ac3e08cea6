// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package hosts

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// checkAccess checks that the calling process has the requested access to
// the specified path. Lack of permissions are reported as an fs.PathError
// for which errors.Is(err, fs.ErrPermission) holds.
func checkAccess(path string, mode uint32, op string) error {
	if err := unix.Access(path, mode); err != nil {
		return &fs.PathError{Op: op, Path: path, Err: err}
	}
	return nil
}

func checkReadable(path string) error {
	return checkAccess(path, unix.R_OK, "read")
}

func checkWritable(path string) error {
	return checkAccess(path, unix.W_OK, "write")
}
