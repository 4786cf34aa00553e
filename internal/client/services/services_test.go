package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/physiokeeper/internal/api"
	"github.com/dmitrijs2005/physiokeeper/internal/client/client"
	"github.com/dmitrijs2005/physiokeeper/internal/common"
)

func TestDashboard_Load(t *testing.T) {
	stub := newAPIStub(t)
	stub.on("GET", "/user-exercises/", 200, []api.UserExercise{{ID: 1, Exercise: 3}})
	stub.on("GET", "/users/active_exercises/", 200, []api.DashboardExercise{{ID: 3, Name: "Squat"}})
	stub.on("GET", "/users/inactive_exercises/", 200, []api.DashboardExercise{})
	caller := stub.caller()

	d, err := NewDashboardService(caller).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, d.Assigned, 1)
	assert.Equal(t, "Squat", d.Active[0].Name)
	assert.Empty(t, d.Inactive)
	assert.Equal(t, 1, caller.calls, "one logical operation")
	assert.Len(t, stub.requests(), 3)
}

func TestDashboard_PartialFailure(t *testing.T) {
	stub := newAPIStub(t)
	stub.on("GET", "/user-exercises/", 200, []api.UserExercise{})
	stub.on("GET", "/users/active_exercises/", 500, map[string]string{"detail": "boom"})
	stub.on("GET", "/users/inactive_exercises/", 200, []api.DashboardExercise{})

	_, err := NewDashboardService(stub.caller()).Load(context.Background())
	assert.True(t, client.IsStatus(err, 500))
	assert.Equal(t, MsgDashboardFailed, UserMessage(err, MsgDashboardFailed).Message)
}

func TestExercise_Detail(t *testing.T) {
	stub := newAPIStub(t)
	stub.on("GET", "/exercises/3/", 200, api.Exercise{ID: 3, Name: "Squat"})
	stub.on("GET", "/user-exercises/7/", 200, api.UserExercise{ID: 7, Sets: 3})
	svc := NewExerciseService(stub.caller())

	d, err := svc.Detail(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.Equal(t, "Squat", d.Exercise.Name)
	assert.Equal(t, 3, d.Assignment.Sets)

	d, err = svc.Detail(context.Background(), 3, 0)
	require.NoError(t, err)
	assert.Nil(t, d.Assignment)

	_, err = svc.Detail(context.Background(), 0, 7)
	require.ErrorIs(t, err, ErrInvalidExerciseID)
}

func TestExercise_CompleteOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		result api.CompletionResult
		pain   int
		want   Outcome
	}{
		{name: "remove wins", result: api.CompletionResult{ShouldRemove: true, ShouldDecrease: true}, pain: 9, want: OutcomeRemovePrompt},
		{name: "decrease", result: api.CompletionResult{ShouldDecrease: true}, pain: 7, want: OutcomeDecreasePrompt},
		{name: "increase", result: api.CompletionResult{ShouldIncrease: true}, pain: 1, want: OutcomeIncreasePrompt},
		{name: "low pain", pain: 3, want: OutcomeLowPain},
		{name: "zero pain", pain: 0, want: OutcomeLowPain},
		{name: "plain success", pain: 5, want: OutcomeSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := newAPIStub(t)
			stub.on("PUT", "/user-exercises/7/", 200, tt.result)

			got, err := NewExerciseService(stub.caller()).Complete(context.Background(), 7, 10, 3, tt.pain)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got.Message())

			reqs := stub.requests()
			require.Len(t, reqs, 1)
			assert.Equal(t, map[string]any{
				"reps": float64(10), "sets": float64(3), "pain_level": float64(tt.pain), "completed": true,
			}, reqs[0].Body)
		})
	}
}

func TestExercise_CompleteValidation(t *testing.T) {
	stub := newAPIStub(t)
	svc := NewExerciseService(stub.caller())
	ctx := context.Background()

	_, err := svc.Complete(ctx, 7, 0, 3, 2)
	require.ErrorIs(t, err, ErrIncompleteForm)
	_, err = svc.Complete(ctx, 7, 10, 3, 11)
	require.ErrorIs(t, err, ErrIncompleteForm)
	_, err = svc.Complete(ctx, 0, 10, 3, 2)
	require.ErrorIs(t, err, ErrInvalidExerciseID)
	assert.Empty(t, stub.requests())
	assert.Equal(t, MsgIncompleteForm, UserMessage(ErrIncompleteForm, "x").Message)
}

func TestOutcome_IsPrompt(t *testing.T) {
	assert.True(t, OutcomeRemovePrompt.IsPrompt())
	assert.True(t, OutcomeDecreasePrompt.IsPrompt())
	assert.True(t, OutcomeIncreasePrompt.IsPrompt())
	assert.False(t, OutcomeLowPain.IsPrompt())
	assert.False(t, OutcomeSuccess.IsPrompt())
}

func TestExercise_Confirmations(t *testing.T) {
	stub := newAPIStub(t)
	stub.on("POST", "/user-exercises/7/confirm_increase/", 200, nil)
	stub.on("POST", "/user-exercises/7/confirm_decrease/", 200, nil)
	stub.on("POST", "/user-exercises/7/confirm_removal/", 200, nil)
	stub.on("PUT", "/user-exercises/7/remove_exercise/", 200, nil)
	svc := NewExerciseService(stub.caller())
	ctx := context.Background()

	require.NoError(t, svc.ConfirmIncrease(ctx, 7))
	require.NoError(t, svc.ConfirmDecrease(ctx, 7))
	require.NoError(t, svc.ConfirmRemoval(ctx, 7, true))
	require.NoError(t, svc.ConfirmRemoval(ctx, 7, false))
	require.NoError(t, svc.Remove(ctx, 7))

	reqs := stub.requests()
	require.Len(t, reqs, 5)
	assert.Equal(t, "yes", reqs[0].Body["confirm"])
	assert.Equal(t, "yes", reqs[1].Body["confirm"])
	assert.Equal(t, "yes", reqs[2].Body["confirm"])
	assert.Equal(t, "no", reqs[3].Body["confirm"])
	assert.Equal(t, "/user-exercises/7/remove_exercise/", reqs[4].Path)

	require.ErrorIs(t, svc.Remove(ctx, 0), ErrInvalidExerciseID)
	require.ErrorIs(t, svc.ConfirmRemoval(ctx, -1, true), ErrInvalidExerciseID)
}

func TestHistory_Load(t *testing.T) {
	stub := newAPIStub(t)
	stub.on("GET", "/reports/exercise_history/", 200, api.HistoryResponse{History: []api.HistoryItem{
		{Date: "2025-01-08", FormattedDate: "Wed, Jan 8", PainLevel: 2, Exercises: []api.ExerciseDetail{{Name: "Squat", Sets: 3, Reps: 10}}},
	}})

	h, err := NewHistoryService(stub.caller()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, "Squat", h[0].Exercises[0].Name)
}

func TestProfile_GetAndUpdate(t *testing.T) {
	stub := newAPIStub(t)
	stub.on("GET", "/users/me/", 200, api.Profile{Username: "ann"})
	stub.on("PUT", "/users/update_profile/", 200, api.Profile{Username: "ann", LastName: "Lee"})
	svc := NewProfileService(stub.caller())
	ctx := context.Background()

	p, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ann", p.Username)

	last := "Lee"
	p, err = svc.Update(ctx, api.ProfileUpdate{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "Lee", p.LastName)

	_, err = svc.Update(ctx, api.ProfileUpdate{})
	require.ErrorIs(t, err, ErrNothingToUpdate)
	assert.Len(t, stub.requests(), 2)
}

func TestPassword_Update(t *testing.T) {
	stub := newAPIStub(t)
	stub.on("PUT", "/users/update_password/", 200, nil)
	svc := NewPasswordService(stub.caller())

	cur, next := []byte("old-pw"), []byte("new-pw")
	require.NoError(t, svc.Update(context.Background(), cur, next))
	assert.Equal(t, make([]byte, 6), cur, "buffers wiped")
	assert.Equal(t, make([]byte, 6), next)

	reqs := stub.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]any{"current_password": "old-pw", "new_password": "new-pw"}, reqs[0].Body)
}

func TestPassword_LocalValidation(t *testing.T) {
	stub := newAPIStub(t)
	svc := NewPasswordService(stub.caller())
	ctx := context.Background()

	require.ErrorIs(t, svc.Update(ctx, nil, []byte("x")), ErrPasswordFieldsMissing)
	require.ErrorIs(t, svc.Update(ctx, []byte("same"), []byte("same")), ErrPasswordUnchanged)
	assert.Empty(t, stub.requests())
}

func TestPasswordAlert(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Alert
	}{
		{
			name: "incorrect current password",
			err:  &client.HTTPError{StatusCode: 400, Message: "Current password is incorrect"},
			want: Alert{Title: "Incorrect Password", Message: "The password you entered doesn't match your current password. Please try again."},
		},
		{
			name: "other server message",
			err:  &client.HTTPError{StatusCode: 400, Message: "Password too short"},
			want: Alert{Title: "Error", Message: "Password too short"},
		},
		{name: "network", err: fmt.Errorf("%w: refused", client.ErrUnavailable), want: AlertNetwork},
		{name: "session", err: &client.HTTPError{StatusCode: 401, Message: "expired"}, want: AlertSessionExpired},
		{name: "missing", err: ErrPasswordFieldsMissing, want: Alert{Title: "Error", Message: MsgPasswordFieldsMissing}},
		{name: "unchanged", err: ErrPasswordUnchanged, want: Alert{Title: "Error", Message: MsgPasswordSame}},
		{name: "unknown", err: errors.New("x"), want: Alert{Title: "Error", Message: "Failed to update password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PasswordAlert(tt.err))
		})
	}
}

func TestReactivate(t *testing.T) {
	stub := newAPIStub(t)
	stub.on("PUT", "/user-exercises/7/reactivate_exercise/", 200, nil)
	svc := NewReactivateService(stub.caller())

	require.NoError(t, svc.Reactivate(context.Background(), 7, 0))
	reqs := stub.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, float64(7), reqs[0].Body["exercise_id"])

	require.ErrorIs(t, svc.Reactivate(context.Background(), 0, 0), ErrInvalidExerciseID)
}

func TestReactivateAlert(t *testing.T) {
	assert.Equal(t,
		Alert{Title: "Cannot Add Exercise", Message: msgReactivateConflict},
		ReactivateAlert(&client.HTTPError{StatusCode: 400, Message: "Bad Request"}))
	assert.Equal(t,
		Alert{Title: "Cannot Add Exercise", Message: "Category full"},
		ReactivateAlert(&client.HTTPError{StatusCode: 400, Message: "Category full"}))
	assert.Equal(t, AlertSessionExpired, ReactivateAlert(&client.HTTPError{StatusCode: 401}))
	assert.Equal(t, msgReactivateFailed, ReactivateAlert(&client.HTTPError{StatusCode: 500}).Message)
	assert.Equal(t, msgReactivateNoNetwork, ReactivateAlert(fmt.Errorf("%w: x", client.ErrUnavailable)).Message)
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, Alert{}, UserMessage(nil, "x"))
	assert.Equal(t, AlertLoginRequired, UserMessage(common.ErrLoginRequired, "x"))
	assert.Equal(t, AlertSessionExpired, UserMessage(fmt.Errorf("%w: gone", common.ErrSessionExpired), "x"))
	assert.Equal(t, AlertNetwork, UserMessage(fmt.Errorf("%w: x", client.ErrUnavailable), "x"))
	assert.Equal(t, Alert{Title: "Error", Message: "fallback"}, UserMessage(&client.HTTPError{StatusCode: 500}, "fallback"))
	assert.Equal(t, "Error: fallback", UserMessage(errors.New("x"), "fallback").String())
}

func TestRegistrationMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "username first",
			err:  &client.HTTPError{StatusCode: 400, Fields: map[string][]string{"username": {"taken."}, "email": {"bad."}}},
			want: "Username: taken.",
		},
		{
			name: "email",
			err:  &client.HTTPError{StatusCode: 400, Fields: map[string][]string{"email": {"Enter a valid email address."}}},
			want: "Email: Enter a valid email address.",
		},
		{
			name: "non field",
			err:  &client.HTTPError{StatusCode: 400, Message: "Passwords are weak"},
			want: "Passwords are weak",
		},
		{name: "server error", err: &client.HTTPError{StatusCode: 500, Message: "boom"}, want: "Please check your information and try again"},
		{name: "network", err: client.ErrUnavailable, want: AlertNetwork.Message},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegistrationMessage(tt.err))
		})
	}
}

func TestChat_SendUsesCachedContext(t *testing.T) {
	stub := newAPIStub(t)
	stub.on("GET", "/user-exercises/", 200, []api.UserExercise{{ID: 1, Sets: 3}})
	stub.on("GET", "/reports/", 200, []api.Report{{PainLevel: 4}, {PainLevel: 8}})
	stub.on("POST", "/api/chatbot/", 200, api.ChatResponse{Message: "Try gentle stretches."})
	stub.on("POST", "/api/reset-chat/", 200, nil)
	svc := NewChatService(stub.caller())
	ctx := context.Background()

	reply, err := svc.Send(ctx, "  my knee hurts ")
	require.NoError(t, err)
	assert.Equal(t, "Try gentle stretches.", reply)

	_, err = svc.Send(ctx, "again")
	require.NoError(t, err)

	var contextLoads, sends int
	var lastChat stubRequest
	for _, r := range stub.requests() {
		switch r.Path {
		case "/reports/":
			contextLoads++
		case "/api/chatbot/":
			sends++
			lastChat = r
		}
	}
	assert.Equal(t, 1, contextLoads)
	assert.Equal(t, 2, sends)

	var ec api.ExerciseContext
	require.NoError(t, json.Unmarshal([]byte(lastChat.Body["exerciseContext"].(string)), &ec))
	assert.Equal(t, 4, ec.RecentPain)
	assert.Len(t, ec.Exercises, 1)

	require.NoError(t, svc.Reset(ctx))
	_, err = svc.Send(ctx, "after reset")
	require.NoError(t, err)

	contextLoads = 0
	for _, r := range stub.requests() {
		if r.Path == "/reports/" {
			contextLoads++
		}
	}
	assert.Equal(t, 2, contextLoads, "reset drops the cached context")
}

func TestChat_EmptyMessage(t *testing.T) {
	stub := newAPIStub(t)
	_, err := NewChatService(stub.caller()).Send(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.Empty(t, stub.requests())
}

func TestChat_ContextFailure(t *testing.T) {
	stub := newAPIStub(t)
	stub.on("GET", "/user-exercises/", 500, nil)
	stub.on("GET", "/reports/", 200, []api.Report{})

	_, err := NewChatService(stub.caller()).Send(context.Background(), "hi")
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusInternalServerError))
}
