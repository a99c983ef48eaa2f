package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"proplens/app/client/imagestore"
	"proplens/app/client/llm"
	"proplens/app/client/vision"
	"proplens/app/config"
	"proplens/app/service/analysis"
	"proplens/app/service/knowledge"
	"proplens/app/service/store"
	"proplens/app/service/taxonomy"

	"github.com/google/uuid"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyImage       = errors.New("empty image")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type Service struct {
	cfg          *config.Config
	storeSvc     *store.Service
	analysisSvc  *analysis.Service
	detector     vision.Detector
	uploader     imagestore.Uploader
	composer     *composer
}

func New(di *do.Injector) (*Service, error) {
	return newService(
		do.MustInvoke[*config.Config](di),
		do.MustInvoke[*store.Service](di),
		do.MustInvoke[*analysis.Service](di),
		do.MustInvoke[*knowledge.Service](di),
		do.MustInvoke[*vision.Client](di),
		do.MustInvoke[*imagestore.Store](di),
		do.MustInvoke[*llm.Client](di),
	), nil
}

func newService(
	cfg *config.Config,
	storeSvc *store.Service,
	analysisSvc *analysis.Service,
	knowledgeSvc *knowledge.Service,
	detector vision.Detector,
	uploader imagestore.Uploader,
	generator llm.Generator,
) *Service {
	return &Service{
		cfg:         cfg,
		storeSvc:    storeSvc,
		analysisSvc: analysisSvc,
		detector:    detector,
		uploader:    uploader,
		composer: &composer{
			generator:    generator,
			knowledgeSvc: knowledgeSvc,
		},
	}
}

// SubmitImage runs the upload path: store the image and run vision inference
// concurrently, normalize the detections, persist a new analysis version and
// answer with a deterministic assessment summary. A collaborator failure
// yields a fallback reply and leaves the session's stored state untouched.
func (s *Service) SubmitImage(ctx context.Context, sessionID string, image []byte, mimeType string) (*store.AnalysisRecord, string, error) {
	if len(image) == 0 {
		return nil, "", ErrEmptyImage
	}

	ext, ok := imageExtensions[mimeType]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedImage, mimeType)
	}

	var (
		imageRef   string
		detections []vision.Detection
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		key := fmt.Sprintf("%s/%s%s", sessionID, uuid.NewString(), ext)

		ref, err := s.uploader.Upload(gctx, key, image, mimeType)
		if err != nil {
			return fmt.Errorf("uploader.Upload: %w", err)
		}

		imageRef = ref
		return nil
	})
	g.Go(func() error {
		result, err := s.detector.Detect(gctx, image, mimeType)
		if err != nil {
			return fmt.Errorf("detector.Detect: %w", err)
		}

		detections = result
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("Image ingestion failed",
			"session", sessionID,
			"error", err)
		return nil, "I couldn't analyze that image right now. Please try uploading it again in a moment.", nil
	}

	record := &store.AnalysisRecord{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		ImageRef:  imageRef,
		Issues:    s.analysisSvc.Normalize(detections),
		CreatedAt: time.Now().UTC(),
	}
	s.storeSvc.Put(sessionID, record)

	reply := summarizeAnalysis(record.Issues)

	s.storeSvc.AppendTurn(sessionID, store.ConversationTurn{
		Role:             store.RoleUser,
		Text:             "Image uploaded for analysis",
		LinkedAnalysisID: record.ID,
		At:               record.CreatedAt,
	})
	s.storeSvc.AppendTurn(sessionID, store.ConversationTurn{
		Role:             store.RoleAssistant,
		Text:             reply,
		LinkedAnalysisID: record.ID,
		At:               time.Now().UTC(),
	})

	return record, reply, nil
}

// SubmitMessage runs one chat turn: assemble context, route, compose, and
// append both sides to the transcript. Unroutable turns get a clarification
// reply and mutate nothing.
func (s *Service) SubmitMessage(ctx context.Context, sessionID, message, location string) (string, error) {
	rctx := s.assemble(sessionID, message, location)

	intent := route(rctx)

	slog.Debug("Routed message",
		"session", sessionID,
		"intent", intent,
		"has_analysis", rctx.Record != nil)

	reply := s.composer.compose(ctx, rctx, intent)

	if intent != Unroutable {
		linkedID := ""
		if rctx.Record != nil {
			linkedID = rctx.Record.ID
		}

		now := time.Now().UTC()
		s.storeSvc.AppendTurn(sessionID, store.ConversationTurn{
			Role:             store.RoleUser,
			Text:             message,
			LinkedAnalysisID: linkedID,
			At:               now,
		})
		s.storeSvc.AppendTurn(sessionID, store.ConversationTurn{
			Role:             store.RoleAssistant,
			Text:             reply,
			LinkedAnalysisID: linkedID,
			At:               time.Now().UTC(),
		})
	}

	return reply, nil
}

// summarizeAnalysis builds the deterministic upload reply: one line per
// detected issue with its confidence tier and quick assessment.
func summarizeAnalysis(issues []analysis.Issue) string {
	if len(issues) == 0 {
		return "I didn't detect any significant issues in this image. Would you like me to look for something specific?"
	}

	var parts []string
	for _, issue := range issues {
		tier := "moderate"
		switch issue.Severity {
		case analysis.SeverityHigh:
			tier = "high"
		case analysis.SeverityLow:
			tier = "low"
		}

		parts = append(parts, fmt.Sprintf("I've detected %s with %s confidence.",
			taxonomy.Display(issue.Label), tier))
		parts = append(parts, fmt.Sprintf("Quick assessment: %s", taxonomy.Recommendation(issue.Label)))
	}

	parts = append(parts, "\nI can provide more specific details about repair steps, prevention measures, or cost breakdown for any of these issues. What would you like to know more about?")

	return strings.Join(parts, " ")
}
