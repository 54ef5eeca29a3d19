// Package device implements the external peripheral adapters spec.md §6
// "Device contract" describes, plus loaders for the three paper-tape
// image formats the reader/punch devices consume. The iounit package
// drives these through the Device interface; it never knows about file
// formats or physical framing.
package device

// Device is the contract every peripheral adapter implements (spec.md §6
// "Device contract"). Codes are 5-bit values with the data/command bit
// convention of spec.md §4.E.
type Device interface {
	// Read returns the next 5-bit code, or ok=false if the device has
	// nothing to deliver (a Hung condition upstream).
	Read() (code byte, ok bool)
	// Write delivers a 5-bit code to the device. ok=false reports a
	// device error (disconnected, buffer full) that the caller turns
	// into a Hung I/O.
	Write(code byte) (ok bool)
	// Cancel aborts any in-flight operation immediately.
	Cancel()
}

// ReversibleDevice is implemented by readers that support the
// paper-tape-reverse I/O operation.
type ReversibleDevice interface {
	Device
	// ReverseBlock backs the tape up one block. It reports hung=true if
	// the device cannot satisfy the request (e.g. already at the start).
	ReverseBlock() (hung bool)
}
