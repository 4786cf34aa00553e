package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/physiokeeper/internal/client/services"
)

// Chat sends one message to the exercise assistant.
// Usage: chat <message>
func (a *App) Chat(ctx context.Context, args []string) error {
	msg := strings.Join(args, " ")
	if strings.TrimSpace(msg) == "" {
		a.println(services.ChatWelcome)
		return nil
	}

	reply, err := runAsync(ctx, func(ctx context.Context) (string, error) {
		return a.chat.Send(ctx, msg)
	})
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			return nil
		}
		return a.fail(err, services.MsgChatSendFailed)
	}
	a.printf("assistant> %s\n", reply)
	return nil
}

func (a *App) ResetChat(ctx context.Context) error {
	if _, err := runAsync(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a.chat.Reset(ctx)
	}); err != nil {
		return a.fail(err, services.MsgChatResetFailed)
	}
	a.println("Chat history cleared")
	return nil
}
