//go:build arm64

package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

func detectFeatures() Features {
	return Features{
		Architecture: runtime.GOARCH,
		HasNEON:      cpu.ARM64.HasASIMD,
	}
}
