package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
)

const (
	ChatWelcome          = "Welcome to your physiotherapy assistant! How can I help you today?"
	MsgChatContextFailed = "Failed to load your exercises. Please check your connection and try again."
	MsgChatSendFailed    = "Sorry, I couldn't process your request. Please try again."
	MsgChatResetFailed   = "Could not reset chat."
)

var ErrEmptyMessage = errors.New("empty message")

type ChatService interface {
	Send(ctx context.Context, message string) (string, error)
	Reset(ctx context.Context) error
}

type chatService struct {
	caller session.Caller

	mu      sync.Mutex
	cached *api.ExerciseContext
}

func NewChatService(caller session.Caller) ChatService {
	return &chatService{caller: caller}
}

// exerciseContext loads the user's exercises and latest pain once per
// conversation.
func (s *chatService) exerciseContext(ctx context.Context) (*api.ExerciseContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return s.cached, nil
	}

	ec, err := session.Do(ctx, s.caller, func(ctx context.Context, c *client.AuthenticatedClient) (*api.ExerciseContext, error) {
		var (
			exercises []api.UserExercise
			reports   []api.Report
		)
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			exercises, err = c.ListUserExercises(ctx)
			return err
		})
		g.Go(func() (err error) {
			reports, err = c.Reports(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		ec := &api.ExerciseContext{Exercises: exercises}
		if len(reports) > 0 {
			ec.RecentPain = reports[0].PainLevel
		}
		return ec, nil
	})
	if err != nil {
		return nil, err
	}
	s.cached = ec
	return ec, nil
}

func (s *chatService) Send(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}

	ec, err := s.exerciseContext(ctx)
	if err != nil {
		return "", fmt.Errorf("exercise context: %w", err)
	}
	encoded, err := json.Marshal(ec)
	if err != nil {
		return "", fmt.Errorf("encode exercise context: %w", err)
	}

	resp, err := session.Do(ctx, s.caller, func(ctx context.Context, c *client.AuthenticatedClient) (*api.ChatResponse, error) {
		return c.SendChat(ctx, message, string(encoded))
	})
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Reset clears the server conversation and the cached context.
func (s *chatService) Reset(ctx context.Context) error {
	err := s.caller.Call(ctx, func(ctx context.Context, c *client.AuthenticatedClient) error {
		return c.ResetChat(ctx)
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
	return nil
}
