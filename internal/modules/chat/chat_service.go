package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ride-booking/internal/models"

	"github.com/google/uuid"
)

// Assistant answers one chat turn.
type Assistant interface {
	Handle(ctx context.Context, utterance string, bc models.BookingContext) models.HandleResult
}

type ServiceInterface interface {
	Send(ctx context.Context, userID string, req models.ChatRequest) (*models.ChatResponse, error)
	History(ctx context.Context, userID, sessionID string) ([]models.ConversationTurn, error)
	Reset(ctx context.Context, userID, sessionID string) error
}

type service struct {
	assistant Assistant
	store     SessionStore
	now       func() time.Time
}

func NewService(assistant Assistant, store SessionStore) ServiceInterface {
	return &service{assistant: assistant, store: store, now: time.Now}
}

// Send runs one turn. An explicit request context overrides the stored one; the
// merged result is written back either way.
func (s *service) Send(ctx context.Context, userID string, req models.ChatRequest) (*models.ChatResponse, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var bc models.BookingContext
	if req.Context != nil {
		bc = *req.Context
	} else {
		loaded, err := s.store.LoadContext(ctx, userID, sessionID)
		if err != nil {
			return nil, fmt.Errorf("service.Send: %w", err)
		}
		bc = loaded
	}

	asked := s.now().UTC()
	res := s.assistant.Handle(ctx, req.Message, bc)

	if err := s.store.SaveContext(ctx, userID, sessionID, bc.Apply(res)); err != nil {
		return nil, fmt.Errorf("service.Send: %w", err)
	}
	turns := []models.ConversationTurn{
		{Role: models.RoleUser, Content: req.Message, Timestamp: asked},
		{Role: models.RoleAssistant, Content: res.Reply, Timestamp: s.now().UTC()},
	}
	if err := s.store.AppendTurns(ctx, userID, sessionID, turns...); err != nil {
		return nil, fmt.Errorf("service.Send: %w", err)
	}
	return &models.ChatResponse{HandleResult: res, SessionID: sessionID}, nil
}

func (s *service) History(ctx context.Context, userID, sessionID string) ([]models.ConversationTurn, error) {
	return s.store.History(ctx, userID, sessionID)
}

func (s *service) Reset(ctx context.Context, userID, sessionID string) error {
	return s.store.Delete(ctx, userID, sessionID)
}
