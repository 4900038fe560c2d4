//go:build windows

package main

import (
	_ "github.com/darkframe/darkframe/internal/platform/win32"
)
