// ABOUTME: Version information for the tone demo
// ABOUTME: Product identity reported in logs and the TUI
package version

const (
	// Version is the software version
	Version = "0.1.0"

	// Product is the product name
	Product = "Low Latency Tone"

	// Manufacturer identifies who built it
	Manufacturer = "Resonate"
)
