//go:build ios || android

package appshell

// MobileMain is the entry point mobile host shells call into.
func MobileMain() {
	Main()
}
