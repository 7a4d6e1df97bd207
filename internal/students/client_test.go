package students

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mriynyk/pkg/api"
)

func newBackend(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/students", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "9", r.URL.Query().Get("grade"))
		_ = json.NewEncoder(w).Encode([]api.Student{{ID: 1, Label: "Olena"}, {ID: 2, Label: "Taras"}})
	})
	mux.HandleFunc("/students/1", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "Algebra", r.URL.Query().Get("subject"))
		_ = json.NewEncoder(w).Encode(api.StudentData{
			Absences: []api.Absence{{Date: "2024-03-01", Subject: "Algebra", Reason: "ill"}},
			Scores:   []api.Score{{Date: "2024-03-01", Subject: "Algebra", Score: f(11)}},
		})
	})
	mux.HandleFunc("/overview", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"average_scores":[{"subject":"Algebra","average":8.4}],
			"absences_by_subject":[{"subject":"Algebra","count":3}],
			"top_students":[{"student_id":1,"label":"Olena","average":11}],
			"bottom_students":[]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestStudentDataIsCached(t *testing.T) {
	var hits int32
	srv := newBackend(t, &hits)
	c := New(srv.URL+"/", "tok", time.Second)
	ctx := context.Background()
	q := Query{Grade: 9, Subject: "Algebra"}

	data, err := c.StudentData(ctx, 1, q)
	require.NoError(t, err)
	require.Len(t, data.Scores, 1)
	assert.Equal(t, 11.0, *data.Scores[0].Score)

	_, err = c.StudentData(ctx, 1, q)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	c.ClearCache()
	_, err = c.StudentData(ctx, 1, q)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestStudentsAndOverview(t *testing.T) {
	var hits int32
	srv := newBackend(t, &hits)
	c := New(srv.URL, "tok", 0)
	ctx := context.Background()

	list, err := c.Students(ctx, 9)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	st, err := c.Student(ctx, 2, 9)
	require.NoError(t, err)
	assert.Equal(t, "Taras", st.Label)
	st, err = c.Student(ctx, 42, 9)
	require.NoError(t, err)
	assert.Equal(t, "Student 42", st.Label)

	ov, err := c.Overview(ctx, 0)
	require.NoError(t, err)
	require.Len(t, ov.TopStudents, 1)
	assert.Equal(t, "Olena", ov.TopStudents[0].Label)
	assert.Equal(t, 3, ov.AbsencesBySubject[0].Count)
}

func TestQueryValues(t *testing.T) {
	assert.Equal(t, "", Query{Subject: "all"}.values().Encode())
	assert.Equal(t, "grade=8&subject=History", Query{Grade: 8, Subject: " History "}.values().Encode())
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()
	ctx := context.Background()

	_, err := New(srv.URL, "", 0).StudentData(ctx, 3, Query{})
	require.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "404")

	_, err = New("", "", 0).Overview(ctx, 0)
	assert.ErrorIs(t, err, ErrNoURL)
}
