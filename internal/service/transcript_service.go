package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/entity"
	"lecturelens-be/internal/repository/memory"
	"lecturelens-be/internal/repository/specification"
	"lecturelens-be/internal/repository/unitofwork"
	"lecturelens-be/pkg/citation"
	"lecturelens-be/pkg/events"
	pktNats "lecturelens-be/pkg/nats"
	"lecturelens-be/pkg/store"

	"github.com/google/uuid"
)

type ITranscriptService interface {
	// Ingest is the trusted write path used by the AI backend.
	Ingest(ctx context.Context, req *dto.IngestSegmentRequest) (*dto.IngestSegmentResponse, error)

	// GetTranscript returns the caller's full ordered transcript with
	// citations numbered by first appearance.
	GetTranscript(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.TranscriptResponse, error)
}

type transcriptService struct {
	uowFactory       unitofwork.RepositoryFactory
	liveStore        *memory.LiveSessionRepository
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewTranscriptService(
	uowFactory unitofwork.RepositoryFactory,
	liveStore *memory.LiveSessionRepository,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) ITranscriptService {
	return &transcriptService{
		uowFactory:       uowFactory,
		liveStore:        liveStore,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func (s *transcriptService) Ingest(ctx context.Context, req *dto.IngestSegmentRequest) (*dto.IngestSegmentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := resolveSession(ctx, uow, req.SessionId)
	if err != nil {
		return nil, err
	}
	if err := requireActive(session); err != nil {
		return nil, err
	}

	words := make([]entity.WordTiming, 0, len(req.Words))
	for _, w := range req.Words {
		words = append(words, entity.WordTiming{Word: w.Word, StartMs: w.StartMs, EndMs: w.EndMs})
	}

	segment := &entity.TranscriptSegment{
		Id:             uuid.New(),
		SessionId:      session.Id,
		Text:           req.Text,
		TranslatedText: req.TranslatedText,
		StartMs:        req.StartMs,
		EndMs:          req.EndMs,
		Words:          words,
		CreatedAt:      time.Now(),
	}

	citations := make([]*entity.Citation, 0, len(req.Citations))
	for _, c := range req.Citations {
		segId := segment.Id
		citations = append(citations, &entity.Citation{
			Id:             uuid.New(),
			SessionId:      session.Id,
			SegmentId:      &segId,
			DocumentId:     c.DocumentId,
			DocumentName:   c.DocumentName,
			PageNumber:     c.PageNumber,
			Snippet:        c.Snippet,
			RelevanceScore: c.RelevanceScore,
			Rank:           c.Rank,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.TranscriptSegmentRepository().Create(ctx, segment); err != nil {
		return nil, err
	}
	if len(citations) > 0 {
		if err := uow.CitationRepository().CreateBulk(ctx, citations); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.touchLiveState(session.Id, segment.StartMs)

	// Hand the segment to the live delivery pipeline. The segment is already
	// committed, so a delivery failure must not make the trusted caller retry
	// and duplicate it; readers still see it in the stored transcript.
	msgPayload := dto.PublishSegmentMessage{
		SessionId: session.Id,
		SegmentId: segment.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err == nil {
		err = s.publisherService.Publish(ctx, msgJson)
	}
	if err != nil {
		fmt.Printf("[WARN] Failed to hand segment to live delivery: %v\n", err)
	}

	if s.eventPublisher != nil {
		evt := events.New(events.TypeSegmentIngested, map[string]interface{}{
			"session_id": session.Id,
			"segment_id": segment.Id,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish SEGMENT_INGESTED event: %v\n", err)
		}
	}

	return &dto.IngestSegmentResponse{SegmentId: segment.Id}, nil
}

func (s *transcriptService) touchLiveState(sessionId uuid.UUID, startMs int64) {
	now := time.Now()
	live, found := s.liveStore.Get(sessionId.String())
	if !found {
		live = &store.LiveSession{
			ID:        sessionId.String(),
			Recording: true,
			StartedAt: now,
		}
	}
	if startMs > live.LastSequence {
		live.LastSequence = startMs
	}
	live.UpdatedAt = now
	s.liveStore.Save(live)
}

func (s *transcriptService) GetTranscript(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.TranscriptResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := resolveOwnedSession(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	segments, err := loadOrderedTranscript(ctx, uow, session.Id)
	if err != nil {
		return nil, err
	}

	numbers := citation.NumberCitations(segments)

	result := make([]dto.SegmentResponse, 0, len(segments))
	for _, seg := range segments {
		result = append(result, segmentToResponse(seg, numbers))
	}

	return &dto.TranscriptResponse{
		SessionId: session.Id,
		Segments:  result,
		Total:     int64(len(result)),
	}, nil
}

// loadOrderedTranscript fetches all segments of a session in start order and
// attaches their citations, preserving insertion order within each segment.
func loadOrderedTranscript(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]*entity.TranscriptSegment, error) {
	segments, err := uow.TranscriptSegmentRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderByStartTime{},
	)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return segments, nil
	}

	ids := make([]uuid.UUID, 0, len(segments))
	for _, seg := range segments {
		ids = append(ids, seg.Id)
	}

	citations, err := uow.CitationRepository().FindAllBySegmentIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	bySegment := make(map[uuid.UUID][]*entity.Citation)
	for _, c := range citations {
		if c.SegmentId != nil {
			bySegment[*c.SegmentId] = append(bySegment[*c.SegmentId], c)
		}
	}
	for _, seg := range segments {
		seg.Citations = bySegment[seg.Id]
	}

	return segments, nil
}

func segmentToResponse(seg *entity.TranscriptSegment, numbers map[string]int) dto.SegmentResponse {
	words := make([]dto.WordTimingPayload, 0, len(seg.Words))
	for _, w := range seg.Words {
		words = append(words, dto.WordTimingPayload{Word: w.Word, StartMs: w.StartMs, EndMs: w.EndMs})
	}

	cits := make([]dto.CitationResponse, 0, len(seg.Citations))
	for _, c := range seg.Citations {
		key := citation.Key(c.DocumentName, c.PageNumber)
		cits = append(cits, dto.CitationResponse{
			Id:             c.Id,
			Number:         numbers[key],
			Key:            key,
			DocumentId:     c.DocumentId,
			DocumentName:   c.DocumentName,
			PageNumber:     c.PageNumber,
			Snippet:        c.Snippet,
			RelevanceScore: c.RelevanceScore,
			CreatedAt:      c.CreatedAt,
		})
	}

	return dto.SegmentResponse{
		Id:             seg.Id,
		Text:           seg.Text,
		TranslatedText: seg.TranslatedText,
		StartMs:        seg.StartMs,
		EndMs:          seg.EndMs,
		Words:          words,
		Citations:      cits,
		CreatedAt:      seg.CreatedAt,
	}
}
