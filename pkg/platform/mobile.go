//go:build ios || android

package platform

const isMobile = true
