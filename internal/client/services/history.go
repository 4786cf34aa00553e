package services

import (
	"context"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/client/session"
)

const MsgHistoryFailed = "Failed to load your exercise history. Please check your connection and try again."

type HistoryService interface {
	Load(ctx context.Context) ([]api.HistoryItem, error)
}

type historyService struct {
	caller session.Caller
}

func NewHistoryService(caller session.Caller) HistoryService {
	return &historyService{caller: caller}
}

func (s *historyService) Load(ctx context.Context) ([]api.HistoryItem, error) {
	return session.Do(ctx, s.caller, func(ctx context.Context, c *client.AuthenticatedClient) ([]api.HistoryItem, error) {
		return c.ExerciseHistory(ctx)
	})
}
