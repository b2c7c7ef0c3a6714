//go:build debug

package platform

const isDebug = true
