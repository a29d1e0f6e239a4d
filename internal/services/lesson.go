package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/edugen-backend/internal/modules/lesson/pipeline"
	"github.com/yungbote/edugen-backend/internal/normalization"
	apperr "github.com/yungbote/edugen-backend/internal/pkg/errors"
	"github.com/yungbote/edugen-backend/internal/platform/logger"
)

// Generator runs one topic through the lesson pipeline.
type Generator interface {
	Run(ctx context.Context, ownerID uuid.UUID, topic string) (*pipeline.Result, error)
}

type LessonService interface {
	Generate(ctx context.Context, topic string) (*pipeline.Result, error)
}

type lessonService struct {
	log *logger.Logger
	gen Generator
}

func NewLessonService(log *logger.Logger, gen Generator) LessonService {
	return &lessonService{log: log.With("service", "LessonService"), gen: gen}
}

func (s *lessonService) Generate(ctx context.Context, topic string) (*pipeline.Result, error) {
	owner, err := OwnerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	topic = normalization.Topic(topic)
	if topic == "" {
		return nil, fmt.Errorf("%w: topic required", apperr.ErrInvalidArgument)
	}
	return s.gen.Run(ctx, owner, topic)
}
