package notes

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"

	"github.com/mithrel/mriynyk/internal/answer"
	"github.com/mithrel/mriynyk/internal/db"
	"github.com/mithrel/mriynyk/pkg/api"
)

const (
	ActivityGenerated = "answer generated"
	ActivitySent      = "answer sent"
)

// Service generates notes, delivers them to students and keeps the activity log.
type Service struct {
	cfg    *viper.Viper
	store  *db.Store
	client *answer.Client
	log    *log.Logger
}

func New(cfg *viper.Viper, store *db.Store, client *answer.Client, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{cfg: cfg, store: store, client: client, log: logger}
}

// Generate requests a note for req.Topic. Year and subject default to
// answer.year and answer.subject.
func (s *Service) Generate(ctx context.Context, req api.AnswerRequest) (api.AnswerResponse, error) {
	if req.Year == 0 {
		req.Year = s.cfg.GetInt("answer.year")
	}
	if strings.TrimSpace(req.Subject) == "" {
		req.Subject = s.cfg.GetString("answer.subject")
	}
	resp, err := s.client.Answer(ctx, req)
	if err != nil {
		return api.AnswerResponse{}, err
	}
	s.log.Printf("answer: topic=%q chars=%d quiz=%d", strings.TrimSpace(req.Topic), len(resp.Result), len(resp.QuizQuestions))
	s.record(ctx, ActivityGenerated, "topic: "+strings.TrimSpace(req.Topic))
	return resp, nil
}

// Send stores m for its student, keeping messages.per_student newest messages.
func (s *Service) Send(ctx context.Context, m api.Message) (api.Message, error) {
	m.Output = strings.TrimSpace(m.Output)
	sent, err := s.store.Messages.SendMessage(ctx, m, s.cfg.GetInt("messages.per_student"))
	if err != nil {
		return api.Message{}, fmt.Errorf("send message: %w", err)
	}
	s.log.Printf("message: sent id=%s student=%s", sent.ID, sent.StudentID)
	s.record(ctx, ActivitySent, sent.StudentID)
	return sent, nil
}

func (s *Service) Messages(ctx context.Context, studentID string, limit int) ([]api.Message, error) {
	return s.store.Messages.ListMessages(ctx, strings.TrimSpace(studentID), limit)
}

func (s *Service) Message(ctx context.Context, id string) (api.Message, error) {
	return s.store.Messages.GetMessage(ctx, id)
}

func (s *Service) Students(ctx context.Context) ([]string, error) {
	return s.store.Messages.ListStudents(ctx)
}

// Activity lists the newest entries; limit 0 uses activity.show.
func (s *Service) Activity(ctx context.Context, limit int) ([]api.Activity, error) {
	if limit == 0 {
		limit = s.cfg.GetInt("activity.show")
	}
	return s.store.Activity.ListActivity(ctx, limit)
}

func (s *Service) ClearActivity(ctx context.Context) error {
	return s.store.Activity.ClearActivity(ctx)
}

// record logs activity failures instead of failing the operation they follow.
func (s *Service) record(ctx context.Context, title, subtitle string) {
	_, err := s.store.Activity.AddActivity(ctx, api.Activity{Title: title, Subtitle: subtitle}, s.cfg.GetInt("activity.limit"))
	if err != nil {
		s.log.Printf("activity: %v", err)
	}
}
