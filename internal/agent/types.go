// Package agent implements the voice assistant reply pipeline: language
// detection, prompt composition, model invocation with canned fallback, and
// the HTTP endpoints that drive it.
package agent

// Frame is one JSON message on the chat WebSocket. The same shape is used
// for broadcasts triggered by REST requests.
type Frame struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	AudioOutput string `json:"audio_output,omitempty"`
}

// Frame types exchanged with the browser client.
const (
	FrameTextInput  = "text_input"
	FrameTranscript = "transcript"
	FrameResponse   = "response"
	FrameError      = "error"
	FramePing       = "ping"
	FramePong       = "pong"
)

// TextRequest is the JSON body of POST /api/text.
type TextRequest struct {
	Text string `json:"text"`
}

// PipelineResponse is the JSON reply of the REST pipeline endpoints.
type PipelineResponse struct {
	Success     bool   `json:"success"`
	Transcript  string `json:"transcript,omitempty"`
	Response    string `json:"response,omitempty"`
	AudioOutput string `json:"audio_output,omitempty"`
	Error       string `json:"error,omitempty"`
}
