// Package speech integrates the hosted speech-to-text and text-to-speech
// services. Both are treated as collaborators with a simple call/return
// contract: transcription failures surface to the caller, synthesis failures
// degrade the reply to text-only.
package speech

import "context"

// Transcriber converts recorded audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Synthesizer renders reply text as audio. A nil byte slice with a nil error
// means no audio was produced, which callers treat as "text-only reply".
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
