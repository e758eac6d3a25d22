// ./capability_other.go

//go:build !amd64 && !arm64

package vsop87

func cpuVectorExtension() string {
	return "none"
}
