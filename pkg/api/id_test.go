package api

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsUUID(t *testing.T) {
	id := NewID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	require.NotEqual(t, id, NewID())
}

func TestDigestStable(t *testing.T) {
	a := Digest("# Title\n\nHello")
	require.Len(t, a, 32)
	require.Equal(t, a, Digest("# Title\n\nHello"))
	require.NotEqual(t, a, Digest("# Title\n\nHello!"))
}

func TestQuizCorrect(t *testing.T) {
	q := QuizQuestion{Text: "2+2?", Options: []string{"4", "3", "5"}}
	require.Equal(t, "4", q.Correct())
	require.Equal(t, "", QuizQuestion{}.Correct())
}
