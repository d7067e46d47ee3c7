package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"panechat/internal/chat"
)

// Internal messages produced by commands. Async results carry the pane
// and chat they were issued for so stale ones can be discarded.

type chatsMsg struct {
	chats []chat.Info
	err   error
}

type historyMsg struct {
	pane   int64
	chatID int64
	msgs   []chat.Message
	err    error
}

type updateMsg struct {
	update chat.Update
	ok     bool // false when the update channel closed
}

type sendResultMsg struct {
	pane        int64
	provisional int64
	msg         chat.Message
	err         error
}

// actionResultMsg reports a fire-and-forget backend call (edit,
// delete, forward).
type actionResultMsg struct {
	note string
	err  error
}

type aliasReloadMsg struct{ ok bool }

type tickMsg time.Time

const requestTimeout = 15 * time.Second

func (m *Model) loadChats() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		chats, err := client.Chats(ctx)
		return chatsMsg{chats: chats, err: err}
	}
}

func (m *Model) fetchHistory(paneID, chatID int64) tea.Cmd {
	client := m.client
	limit := m.cfg.HistoryLimit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msgs, err := client.History(ctx, chatID, limit)
		return historyMsg{pane: paneID, chatID: chatID, msgs: msgs, err: err}
	}
}

// waitForUpdate blocks on the collaborator's update channel and
// re-arms itself after every delivery.
func (m *Model) waitForUpdate() tea.Cmd {
	ch := m.client.Updates()
	return func() tea.Msg {
		u, ok := <-ch
		return updateMsg{update: u, ok: ok}
	}
}

func (m *Model) waitForAliasReload() tea.Cmd {
	ch := m.aliasReloads
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		_, ok := <-ch
		return aliasReloadMsg{ok: ok}
	}
}

func (m *Model) sendMessage(paneID, provisionalID, chatID int64, text string, replyTo int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msg, err := client.Send(ctx, chatID, text, replyTo)
		return sendResultMsg{pane: paneID, provisional: provisionalID, msg: msg, err: err}
	}
}

func (m *Model) editMessage(chatID, messageID int64, text string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.Edit(ctx, chatID, messageID, text)
		return actionResultMsg{note: "message edited", err: err}
	}
}

func (m *Model) deleteMessage(chatID, messageID int64) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.Delete(ctx, chatID, messageID)
		return actionResultMsg{note: "message deleted", err: err}
	}
}

func (m *Model) forwardMessage(fromChat, messageID, toChat int64, target string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := client.Forward(ctx, fromChat, messageID, toChat)
		return actionResultMsg{note: "forwarded to " + target, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
