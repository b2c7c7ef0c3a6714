package appshell

// Version is the release version, overridden at link time with
// -ldflags "-X github.com/aretw0/appshell.Version=...".
var Version = "0.1.0-dev"
