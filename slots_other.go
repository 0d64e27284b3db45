//go:build !linux

package bpflog

func schedulableCPUs() int {
	return 0
}
