//go:build darwin

package logger

import "syscall"

const ioctlTermiosReq = syscall.TIOCGETA
