package jsonconfig

// Lifecycle hooks. A configuration type implements any subset of these to be
// notified; the store calls them synchronously and ignores the rest. Hooks
// receive the effective path and cannot change the outcome of the call.
//
// Load calls Loaded when a file was decoded, or Created when a default was
// built (followed by Saving and Saved under SaveNew), then Ready. Save calls
// Saving before encoding and Saved after the write succeeds.

// Loaded is notified after a file was read and decoded.
type Loaded interface {
	OnLoaded(path string)
}

// Created is notified after a default instance was built for a missing file.
type Created interface {
	OnCreated(path string)
}

// Ready is notified last in every successful Load that returns an instance.
type Ready interface {
	OnReady(path string)
}

// Saving is notified immediately before the instance is encoded.
type Saving interface {
	OnSaving(path string)
}

// Saved is notified immediately after the file was written.
type Saved interface {
	OnSaved(path string)
}
