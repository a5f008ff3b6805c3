// Package ocr defines the contract between the transcription pipeline and
// pluggable recognition engines (a native Tesseract binding, a remote vision
// model). The interfaces are intentionally small and transport-agnostic so
// engines can be backed by native libraries or remote APIs without leaking
// provider-specific concerns into callers.
package ocr
