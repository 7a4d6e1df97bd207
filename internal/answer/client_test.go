package answer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mriynyk/pkg/api"
)

func TestAnswerPostsRequest(t *testing.T) {
	var got api.AnswerRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/answer", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(api.AnswerResponse{
			Result:        "# Fractions\n\nA fraction is a part.",
			QuizQuestions: []api.QuizQuestion{{Text: "q", Options: []string{"right", "wrong"}}},
		})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "tok", time.Second)
	resp, err := c.Answer(context.Background(), api.AnswerRequest{
		Year:        2024,
		Subject:     "math",
		Topic:       "  Fractions ",
		StudentInfo: "struggles with denominators",
	})
	require.NoError(t, err)
	assert.Equal(t, "Fractions", got.Topic)
	assert.Equal(t, 2024, got.Year)
	assert.Equal(t, "struggles with denominators", got.StudentInfo)
	assert.Contains(t, resp.Result, "A fraction is a part.")
	require.Len(t, resp.QuizQuestions, 1)
	assert.Equal(t, "right", resp.QuizQuestions[0].Correct())
}

func TestAnswerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx := context.Background()
	_, err := New(srv.URL, "", 0).Answer(ctx, api.AnswerRequest{Topic: "   "})
	assert.ErrorIs(t, err, ErrEmptyTopic)

	_, err = New("", "", 0).Answer(ctx, api.AnswerRequest{Topic: "x"})
	assert.ErrorIs(t, err, ErrNoURL)

	_, err = New(srv.URL, "", 0).Answer(ctx, api.AnswerRequest{Topic: "x"})
	require.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "500")
}

func TestAnswerNoTokenHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL, "", 0).Answer(context.Background(), api.AnswerRequest{Topic: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Result)
	assert.Empty(t, resp.QuizQuestions)
}

func TestAnswerTruncatedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "100")
		_, _ = w.Write([]byte(`{"result":`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "", time.Second).Answer(context.Background(), api.AnswerRequest{Topic: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read response")
	assert.NotContains(t, err.Error(), "decode answer")
}
