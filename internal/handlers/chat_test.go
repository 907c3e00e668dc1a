package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/oussama490/photo-app/internal/chatbot"
)

type stubCompleter struct {
	reply  string
	err    error
	called bool
}

func (s *stubCompleter) Complete(_ context.Context, _ []chatbot.Message) (string, error) {
	s.called = true
	return s.reply, s.err
}

func TestChatEmptyConversation(t *testing.T) {
	h := NewChat(&stubCompleter{})
	for _, body := range []string{`{}`, `{"messages":[]}`} {
		resp, err := h.Handle(context.Background(), anonReq("POST", body))
		if err != nil {
			t.Fatalf("Handle: %v", err)
		}
		if resp.StatusCode != 400 {
			t.Errorf("body %s: status = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestChatRuleMatchSkipsCompleter(t *testing.T) {
	stub := &stubCompleter{reply: "unused"}
	h := NewChat(stub)

	resp, err := h.Handle(context.Background(), anonReq("POST",
		`{"messages":[{"role":"user","text":"Comment créer un album ?"}]}`))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var out struct {
		Reply string `json:"reply"`
	}
	decodeBody(t, resp, &out)
	if out.Reply != chatbot.ReplyCreateAlbum {
		t.Errorf("reply = %q, want the canned create-album reply", out.Reply)
	}
	if stub.called {
		t.Error("completer called despite a rule match")
	}
}

func TestChatFallsBackToCompleter(t *testing.T) {
	stub := &stubCompleter{reply: "Voici une idée de légende."}
	h := NewChat(stub)

	resp, err := h.Handle(context.Background(), anonReq("POST",
		`{"messages":[{"role":"user","text":"Raconte-moi une blague"}]}`))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	var out struct {
		Reply string `json:"reply"`
	}
	decodeBody(t, resp, &out)
	if out.Reply != stub.reply {
		t.Errorf("reply = %q, want completer output", out.Reply)
	}
	if !stub.called {
		t.Error("completer was never called")
	}
}

func TestChatCompleterFailure(t *testing.T) {
	h := NewChat(&stubCompleter{err: errors.New("quota exceeded")})

	resp, err := h.Handle(context.Background(), anonReq("POST",
		`{"messages":[{"role":"user","text":"Raconte-moi une blague"}]}`))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if resp.Body == "" || resp.Body == "quota exceeded" {
		t.Errorf("unexpected body %q", resp.Body)
	}
}
