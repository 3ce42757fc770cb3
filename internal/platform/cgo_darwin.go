//go:build darwin && cgo
// +build darwin,cgo

package platform

const cgoEnabled = true
