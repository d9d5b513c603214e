// Package gnpia keeps version information of the application.
package gnpia

var (
	// Version of the app. It is set during build by ldflags.
	Version = "v0.1.0"
	// Build timestamp. It is set during build by ldflags.
	Build = "n/a"
)
