package prompt

import (
	"github.com/riverwood-projects/voice-agent/internal/conversation"
	"github.com/riverwood-projects/voice-agent/internal/language"
	"github.com/riverwood-projects/voice-agent/internal/status"
)

// maxContextTurns bounds how much history rides along with each request,
// keeping latency and token cost predictable.
const maxContextTurns = 2

// Compose builds the message sequence for one generation request: a single
// system instruction in the detected language, then up to the last two turns
// as user/assistant pairs in chronological order, then the utterance itself.
// The result is therefore at most six messages.
func Compose(utterance string, lang language.Language, recent []conversation.Turn) []Message {
	report, _ := status.Current()
	profile := ProfileFor(lang)

	msgs := make([]Message, 0, 2+2*maxContextTurns)
	msgs = append(msgs, Message{Role: RoleSystem, Content: profile.System(report)})

	if len(recent) > maxContextTurns {
		recent = recent[len(recent)-maxContextTurns:]
	}
	for _, t := range recent {
		msgs = append(msgs,
			Message{Role: RoleUser, Content: t.User},
			Message{Role: RoleAssistant, Content: t.Reply},
		)
	}

	return append(msgs, Message{Role: RoleUser, Content: utterance})
}
