package api

import "time"

// QuizQuestion is a generated multiple-choice question. Options[0] is the correct answer.
type QuizQuestion struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// Correct returns the correct option, or "" if there are none.
func (q QuizQuestion) Correct() string {
	if len(q.Options) == 0 {
		return ""
	}
	return q.Options[0]
}

// Message is a generated note sent to a student.
type Message struct {
	ID        string         `json:"id"`
	StudentID string         `json:"student_id"`
	Topic     string         `json:"topic"`
	Subject   string         `json:"subject"`
	Output    string         `json:"output"`
	Quiz      []QuizQuestion `json:"quiz_questions,omitempty"`
	Digest    string         `json:"digest"`
	CreatedAt time.Time      `json:"created_at"`
}

// Activity is one line of the activity log.
type Activity struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	CreatedAt time.Time `json:"created_at"`
}

// AnswerRequest is the body of POST /answer.
type AnswerRequest struct {
	Year        int    `json:"year"`
	Subject     string `json:"subject"`
	Topic       string `json:"topic"`
	StudentInfo string `json:"student_info"`
}

// AnswerResponse is the reply of POST /answer.
type AnswerResponse struct {
	Result        string         `json:"result"`
	QuizQuestions []QuizQuestion `json:"quiz_questions,omitempty"`
}

// RenderRequest asks the server to render a note body.
type RenderRequest struct {
	Text     string `json:"text"`
	MinChars *int   `json:"min_chars,omitempty"`
}

// RenderResult carries the rendered blocks and their pagination.
type RenderResult struct {
	Blocks []string `json:"blocks"`
	Pages  []string `json:"pages"`
}

// Student is one entry of GET /students.
type Student struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Absence is one missed lesson.
type Absence struct {
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
}

// Score is one graded item. Score is nil for non-numeric marks.
type Score struct {
	Date    string   `json:"date"`
	Subject string   `json:"subject"`
	Score   *float64 `json:"score"`
}

// StudentData is the reply of GET /students/{id}.
type StudentData struct {
	Absences []Absence `json:"absences"`
	Scores   []Score   `json:"scores"`
}

type SubjectAverage struct {
	Subject string  `json:"subject"`
	Average float64 `json:"average"`
}

type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

type StudentAverage struct {
	StudentID int     `json:"student_id"`
	Label     string  `json:"label"`
	Average   float64 `json:"average"`
}

// Overview is the reply of GET /overview.
type Overview struct {
	AverageScores     []SubjectAverage `json:"average_scores"`
	AbsencesBySubject []SubjectCount   `json:"absences_by_subject"`
	TopStudents       []StudentAverage `json:"top_students"`
	BottomStudents    []StudentAverage `json:"bottom_students"`
}
