package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/timex"
)

// AuthenticatedClient issues requests with one bearer token. It is never
// mutated after construction.
type AuthenticatedClient struct {
	t transport
}

// NewAuthenticated binds a client to token. An empty baseURL falls back to
// common.DefaultAPIBaseURL and a non-positive timeout to DefaultTimeout.
func NewAuthenticated(baseURL, token string, timeout time.Duration, hc *http.Client) *AuthenticatedClient {
	return &AuthenticatedClient{t: newTransport(baseURL, token, timeout, hc)}
}

// Token returns the access token the client sends.
func (c *AuthenticatedClient) Token() string { return c.t.token }

// BaseURL returns the normalised API base URL.
func (c *AuthenticatedClient) BaseURL() string { return c.t.baseURL }

// Timeout returns the per-request timeout.
func (c *AuthenticatedClient) Timeout() time.Duration { return c.t.timeout }

func userExercisePath(id int64, action string) string {
	p := "/user-exercises/" + strconv.FormatInt(id, 10) + "/"
	if action != "" {
		p += action + "/"
	}
	return p
}

// --- Profile ---

// Me returns the current user's profile.
func (c *AuthenticatedClient) Me(ctx context.Context) (*api.Profile, error) {
	var p api.Profile
	if err := c.t.get(ctx, "/users/me/", &p); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &p, nil
}

// UpdateProfile applies a partial update and returns the stored profile.
func (c *AuthenticatedClient) UpdateProfile(ctx context.Context, u api.ProfileUpdate) (*api.Profile, error) {
	var p api.Profile
	if err := c.t.put(ctx, "/users/update_profile/", u, &p); err != nil {
		return nil, fmt.Errorf("client.UpdateProfile: %w", err)
	}
	return &p, nil
}

// UpdatePassword changes the account password.
func (c *AuthenticatedClient) UpdatePassword(ctx context.Context, u api.PasswordUpdate) error {
	if err := c.t.put(ctx, "/users/update_password/", u, nil); err != nil {
		return fmt.Errorf("client.UpdatePassword: %w", err)
	}
	return nil
}

// --- Exercises ---

// ListUserExercises returns every exercise assigned to the user.
func (c *AuthenticatedClient) ListUserExercises(ctx context.Context) ([]api.UserExercise, error) {
	var out []api.UserExercise
	if err := c.t.get(ctx, "/user-exercises/", &out); err != nil {
		return nil, fmt.Errorf("client.ListUserExercises: %w", err)
	}
	return out, nil
}

// ActiveExercises returns the dashboard's active list.
func (c *AuthenticatedClient) ActiveExercises(ctx context.Context) ([]api.DashboardExercise, error) {
	var out []api.DashboardExercise
	if err := c.t.get(ctx, "/users/active_exercises/", &out); err != nil {
		return nil, fmt.Errorf("client.ActiveExercises: %w", err)
	}
	return out, nil
}

// InactiveExercises returns exercises the user removed from the routine.
func (c *AuthenticatedClient) InactiveExercises(ctx context.Context) ([]api.DashboardExercise, error) {
	var out []api.DashboardExercise
	if err := c.t.get(ctx, "/users/inactive_exercises/", &out); err != nil {
		return nil, fmt.Errorf("client.InactiveExercises: %w", err)
	}
	return out, nil
}

func (c *AuthenticatedClient) GetUserExercise(ctx context.Context, id int64) (*api.UserExercise, error) {
	var out api.UserExercise
	if err := c.t.get(ctx, userExercisePath(id, ""), &out); err != nil {
		return nil, fmt.Errorf("client.GetUserExercise: %w", err)
	}
	return &out, nil
}

func (c *AuthenticatedClient) GetExercise(ctx context.Context, id int64) (*api.Exercise, error) {
	var out api.Exercise
	if err := c.t.get(ctx, "/exercises/"+strconv.FormatInt(id, 10)+"/", &out); err != nil {
		return nil, fmt.Errorf("client.GetExercise: %w", err)
	}
	return &out, nil
}

// UpdateCompletion records a completed session and returns the follow-up
// the server suggests.
func (c *AuthenticatedClient) UpdateCompletion(ctx context.Context, id int64, u api.CompletionUpdate) (*api.CompletionResult, error) {
	var out api.CompletionResult
	if err := c.t.put(ctx, userExercisePath(id, ""), u, &out); err != nil {
		return nil, fmt.Errorf("client.UpdateCompletion: %w", err)
	}
	return &out, nil
}

func (c *AuthenticatedClient) ConfirmIncrease(ctx context.Context, id int64) error {
	if err := c.t.post(ctx, userExercisePath(id, "confirm_increase"), api.ConfirmValue(true), nil); err != nil {
		return fmt.Errorf("client.ConfirmIncrease: %w", err)
	}
	return nil
}

func (c *AuthenticatedClient) ConfirmDecrease(ctx context.Context, id int64) error {
	if err := c.t.post(ctx, userExercisePath(id, "confirm_decrease"), api.ConfirmValue(true), nil); err != nil {
		return fmt.Errorf("client.ConfirmDecrease: %w", err)
	}
	return nil
}

// ConfirmRemoval answers the removal prompt that follows a high-pain session.
func (c *AuthenticatedClient) ConfirmRemoval(ctx context.Context, id int64, remove bool) error {
	if err := c.t.post(ctx, userExercisePath(id, "confirm_removal"), api.ConfirmValue(remove), nil); err != nil {
		return fmt.Errorf("client.ConfirmRemoval: %w", err)
	}
	return nil
}

// RemoveExercise deactivates an exercise without a prompt.
func (c *AuthenticatedClient) RemoveExercise(ctx context.Context, id int64) error {
	if err := c.t.put(ctx, userExercisePath(id, "remove_exercise"), nil, nil); err != nil {
		return fmt.Errorf("client.RemoveExercise: %w", err)
	}
	return nil
}

// ReactivateExercise puts a removed exercise back into the routine.
func (c *AuthenticatedClient) ReactivateExercise(ctx context.Context, id, exerciseID int64) error {
	if err := c.t.put(ctx, userExercisePath(id, "reactivate_exercise"), api.Reactivate{ExerciseID: exerciseID}, nil); err != nil {
		return fmt.Errorf("client.ReactivateExercise: %w", err)
	}
	return nil
}

// --- Reports ---

func (c *AuthenticatedClient) ExerciseHistory(ctx context.Context) ([]api.HistoryItem, error) {
	var out api.HistoryResponse
	if err := c.t.get(ctx, "/reports/exercise_history/", &out); err != nil {
		return nil, fmt.Errorf("client.ExerciseHistory: %w", err)
	}
	return out.History, nil
}

// AdherenceStats returns the week ending at end.
func (c *AuthenticatedClient) AdherenceStats(ctx context.Context, end time.Time) (*api.AdherenceStats, error) {
	var out api.AdherenceStats
	if err := c.t.get(ctx, "/reports/adherence_stats/?"+endDateQuery(end), &out); err != nil {
		return nil, fmt.Errorf("client.AdherenceStats: %w", err)
	}
	return &out, nil
}

// PainStats returns the week ending at end.
func (c *AuthenticatedClient) PainStats(ctx context.Context, end time.Time) (*api.PainStats, error) {
	var out api.PainStats
	if err := c.t.get(ctx, "/reports/pain_stats/?"+endDateQuery(end), &out); err != nil {
		return nil, fmt.Errorf("client.PainStats: %w", err)
	}
	return &out, nil
}

// Reports returns daily reports, newest first.
func (c *AuthenticatedClient) Reports(ctx context.Context) ([]api.Report, error) {
	var out []api.Report
	if err := c.t.get(ctx, "/reports/", &out); err != nil {
		return nil, fmt.Errorf("client.Reports: %w", err)
	}
	return out, nil
}

func endDateQuery(end time.Time) string {
	v := url.Values{}
	v.Set("end_date", timex.FormatDate(end))
	return v.Encode()
}

// --- Chatbot ---

// SendChat posts a message; exerciseContext is a JSON document.
func (c *AuthenticatedClient) SendChat(ctx context.Context, message, exerciseContext string) (*api.ChatResponse, error) {
	var out api.ChatResponse
	req := api.ChatRequest{Message: message, ExerciseContext: exerciseContext}
	if err := c.t.post(ctx, "/api/chatbot/", req, &out); err != nil {
		return nil, fmt.Errorf("client.SendChat: %w", err)
	}
	return &out, nil
}

// ResetChat clears the server-side conversation.
func (c *AuthenticatedClient) ResetChat(ctx context.Context) error {
	if err := c.t.post(ctx, "/api/reset-chat/", struct{}{}, nil); err != nil {
		return fmt.Errorf("client.ResetChat: %w", err)
	}
	return nil
}
