package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/riverwood-projects/voice-agent/internal/conversation"
	"github.com/riverwood-projects/voice-agent/internal/language"
	"github.com/riverwood-projects/voice-agent/internal/prompt"
)

type fakeGenerator struct {
	available   bool
	reply       string
	err         error
	gotMessages []prompt.Message
	gotTokens   int
	gotTemp     float64
}

func (g *fakeGenerator) Available() bool { return g.available }

func (g *fakeGenerator) Complete(_ context.Context, messages []prompt.Message, maxTokens int, temperature float64) (string, error) {
	g.gotMessages = messages
	g.gotTokens = maxTokens
	g.gotTemp = temperature
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func TestRespondFallbackWhenUnavailable(t *testing.T) {
	svc := NewService(&fakeGenerator{available: false}, 0, nil)

	reply, lang := svc.Respond(context.Background(), "kaise ho", nil)
	if lang != language.Hindi {
		t.Fatalf("Detected language = %q, want hindi", lang)
	}
	if want := prompt.ProfileFor(language.Hindi).Fallback; reply != want {
		t.Errorf("Hindi fallback = %q, want %q", reply, want)
	}

	reply, lang = svc.Respond(context.Background(), "good morning", nil)
	if lang != language.English {
		t.Fatalf("Detected language = %q, want english", lang)
	}
	if want := prompt.ProfileFor(language.English).Fallback; reply != want {
		t.Errorf("English fallback = %q, want %q", reply, want)
	}
}

func TestRespondUsesModelReply(t *testing.T) {
	gen := &fakeGenerator{available: true, reply: "Foundation is complete."}
	svc := NewService(gen, 0, nil)

	recent := []conversation.Turn{{User: "earlier", Reply: "answer"}}
	reply, lang := svc.Respond(context.Background(), "what is the status today?", recent)

	if reply != "Foundation is complete." {
		t.Errorf("Reply = %q, want model output", reply)
	}
	if lang != language.English {
		t.Errorf("Language = %q, want english", lang)
	}
	if gen.gotTokens != replyMaxTokens {
		t.Errorf("maxTokens = %d, want %d", gen.gotTokens, replyMaxTokens)
	}
	if gen.gotTemp != replyTemperature {
		t.Errorf("temperature = %v, want %v", gen.gotTemp, replyTemperature)
	}
	if len(gen.gotMessages) != 4 {
		t.Fatalf("Composed %d messages, want 4 (system + pair + utterance)", len(gen.gotMessages))
	}
	if gen.gotMessages[0].Role != prompt.RoleSystem {
		t.Errorf("First message role = %q, want system", gen.gotMessages[0].Role)
	}
	if last := gen.gotMessages[len(gen.gotMessages)-1]; last.Content != "what is the status today?" {
		t.Errorf("Last message = %q, want the utterance", last.Content)
	}
}

func TestRespondFallbackOnGenerationError(t *testing.T) {
	gen := &fakeGenerator{available: true, err: errors.New("timed out")}
	svc := NewService(gen, 0, nil)

	reply, lang := svc.Respond(context.Background(), "what is the status today?", nil)
	if want := prompt.ProfileFor(language.English).Fallback; reply != want {
		t.Errorf("Reply after error = %q, want English fallback", reply)
	}
	if lang != language.English {
		t.Errorf("Language = %q, want english", lang)
	}
}

func TestRespondEmptyUtterance(t *testing.T) {
	svc := NewService(nil, 0, nil)

	reply, lang := svc.Respond(context.Background(), "", nil)
	if reply == "" {
		t.Fatal("Reply for empty utterance must be non-empty")
	}
	if lang != language.English {
		t.Errorf("Language for empty utterance = %q, want english", lang)
	}
}
