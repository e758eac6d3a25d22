// ./capability_arm64.go

//go:build arm64

package vsop87

import "golang.org/x/sys/cpu"

func cpuVectorExtension() string {
	if cpu.ARM64.HasASIMD {
		return "asimd"
	}
	return "none"
}
