package interval

// RoundingGuard is a scoped acquisition/release token for the process-wide
// directed-rounding mode that every routine in this package is supposed to
// hold while it runs; rounding mode is a per-thread concern.
// Go's math package exposes no rounding-mode control, so the guard is a
// no-op placeholder: the actual conservatism comes from the one-ULP
// widening every operation performs directly (see the package doc comment).
// The type exists so call sites read the same way they would against a
// library that did expose FPU rounding control, and so a future build tag
// backed by such a library has a single seam to plug into.
type RoundingGuard struct{}

// AcquireRoundingGuard "acquires" the rounding mode for the caller's
// goroutine. Release with Release; typically deferred immediately.
func AcquireRoundingGuard() RoundingGuard { return RoundingGuard{} }

// Release is a no-op under the current (ULP-widening) strategy.
func (RoundingGuard) Release() {}
