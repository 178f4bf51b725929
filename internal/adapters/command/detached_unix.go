//go:build !windows

package command

import "syscall"

// detachedProcAttr returns process attributes for detaching a daemon on Unix.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
