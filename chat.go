package main

import (
	"context"

	"github.com/google/uuid"
)

const chatTitleLimit = 30

// newChatThread appends a fresh empty thread and makes it active
func newChatThread(state *SessionState, title string) *ChatThread {
	thread := ChatThread{
		ID:       uuid.NewString(),
		Title:    title,
		Messages: []ChatMessage{},
	}
	state.Chats = append(state.Chats, thread)
	state.ActiveChatID = thread.ID
	return &state.Chats[len(state.Chats)-1]
}

// activeChat resolves the active pointer, or nil if it dangles
func activeChat(state *SessionState) *ChatThread {
	for i := range state.Chats {
		if state.Chats[i].ID == state.ActiveChatID {
			return &state.Chats[i]
		}
	}
	return nil
}

// ensureActiveChat repairs the session invariant before every chat
// operation: the active id must reference a present thread. An empty chat
// list or a dangling pointer gets a lazily created thread.
func ensureActiveChat(state *SessionState) *ChatThread {
	if len(state.Chats) == 0 || state.ActiveChatID == "" {
		return newChatThread(state, "Initial Chat")
	}
	if thread := activeChat(state); thread != nil {
		return thread
	}
	return newChatThread(state, "Initial Chat")
}

// selectChat switches the active pointer unconditionally. No existence
// check: a dangling id is healed by ensureActiveChat on the next access.
func selectChat(state *SessionState, id string) {
	state.ActiveChatID = id
}

// deleteChat removes the thread with the given id. Deleting the active
// thread clears the pointer so the next access creates a fresh one.
func deleteChat(state *SessionState, id string) {
	kept := state.Chats[:0]
	for _, thread := range state.Chats {
		if thread.ID != id {
			kept = append(kept, thread)
		}
	}
	state.Chats = kept
	if state.ActiveChatID == id {
		state.ActiveChatID = ""
	}
}

// postMessage appends the user message to the active thread, asks the
// generator for a completion, and appends the reply. Only the new question
// is sent; accumulated transcript is never forwarded. Generator failures
// are captured into the transcript as "Error: ..." entries rather than
// failing the request.
func postMessage(ctx context.Context, state *SessionState, gen TextGenerator, question string) *ChatThread {
	thread := ensureActiveChat(state)

	thread.Messages = append(thread.Messages, ChatMessage{Role: "user", Content: question})

	answer, err := gen.Generate(ctx, question)
	if err != nil {
		answer = "Error: " + err.Error()
	}
	thread.Messages = append(thread.Messages, ChatMessage{Role: "ai", Content: answer})

	// First exchange names the thread after the question
	if len(thread.Messages) <= 2 {
		thread.Title = truncateTitle(question)
	}

	return thread
}

func truncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) > chatTitleLimit {
		return string(runes[:chatTitleLimit])
	}
	return s
}
