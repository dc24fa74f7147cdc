package xsys

import "errors"

// ErrUnsupportedPlatform 表示当前平台不支持此操作。
var ErrUnsupportedPlatform = errors.New("xsys: unsupported platform")
