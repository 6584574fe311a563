//go:build linux

package logger

import "syscall"

const ioctlTermiosReq = syscall.TCGETS
