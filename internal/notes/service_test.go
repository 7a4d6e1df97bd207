package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mriynyk/internal/answer"
	"github.com/mithrel/mriynyk/internal/db"
	"github.com/mithrel/mriynyk/pkg/api"
)

func newService(t *testing.T, h http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	st, err := db.Open(context.Background(), "mem://")
	require.NoError(t, err)
	v := viper.New()
	v.Set("answer.year", 2024)
	v.Set("answer.subject", "math")
	v.Set("messages.per_student", 10)
	v.Set("activity.limit", 12)
	v.Set("activity.show", 6)
	return New(v, st, answer.New(srv.URL, "", 0), log.New(io.Discard, "", 0))
}

func TestGenerateFillsDefaultsAndRecords(t *testing.T) {
	var got api.AnswerRequest
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"result":"# Fractions"}`))
	})
	ctx := context.Background()

	resp, err := svc.Generate(ctx, api.AnswerRequest{Topic: "Fractions"})
	require.NoError(t, err)
	assert.Equal(t, "# Fractions", resp.Result)
	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, "math", got.Subject)

	items, err := svc.Activity(ctx, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, ActivityGenerated, items[0].Title)
	assert.Equal(t, "topic: Fractions", items[0].Subtitle)
}

func TestGenerateFailureRecordsNothing(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	ctx := context.Background()
	_, err := svc.Generate(ctx, api.AnswerRequest{Topic: "x"})
	require.ErrorIs(t, err, answer.ErrStatus)

	_, err = svc.Generate(ctx, api.AnswerRequest{})
	require.ErrorIs(t, err, answer.ErrEmptyTopic)

	items, err := svc.Activity(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSendCapsAndRecords(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx := context.Background()

	for i := 0; i < 11; i++ {
		_, err := svc.Send(ctx, api.Message{StudentID: "s1", Topic: fmt.Sprintf("t%d", i), Output: "  body  "})
		require.NoError(t, err)
	}
	msgs, err := svc.Messages(ctx, " s1 ", 0)
	require.NoError(t, err)
	require.Len(t, msgs, 10)
	assert.Equal(t, "t10", msgs[0].Topic)
	assert.Equal(t, "body", msgs[0].Output)

	got, err := svc.Message(ctx, msgs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, msgs[0].ID, got.ID)

	_, err = svc.Send(ctx, api.Message{StudentID: "s1", Output: "   "})
	assert.ErrorIs(t, err, db.ErrInvalid)

	students, err := svc.Students(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, students)

	shown, err := svc.Activity(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, shown, 6)
	assert.Equal(t, ActivitySent, shown[0].Title)
	assert.Equal(t, "s1", shown[0].Subtitle)

	all, err := svc.Activity(ctx, -1)
	require.NoError(t, err)
	assert.Len(t, all, 11)

	require.NoError(t, svc.ClearActivity(ctx))
	all, err = svc.Activity(ctx, -1)
	require.NoError(t, err)
	assert.Empty(t, all)
}
