// ./capability_amd64.go

//go:build amd64

package vsop87

import "golang.org/x/sys/cpu"

func cpuVectorExtension() string {
	if cpu.X86.HasAVX2 && cpu.X86.HasFMA {
		return "avx2+fma"
	}
	return "none"
}
