//go:build linux

package store

import "golang.org/x/sys/unix"

// fadviseRandom hints the kernel that reads against fd will be random
// access, discouraging sequential readahead.
func fadviseRandom(fd uintptr) error {
	return unix.Fadvise(int(fd), 0, 0, unix.FADV_RANDOM)
}
