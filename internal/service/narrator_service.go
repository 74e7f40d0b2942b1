package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/dostonbek/testplatform/config"
	"github.com/dostonbek/testplatform/internal/model"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Fixed fallback strings shown when the AI service is unreachable. Analysis
// failures are invisible to the user by design.
const (
	analysisFallback = "Natijalar muvaffaqiyatli tahlil qilindi."
	greetingFallback = "Bilim yo'lidagi muvaffaqiyatlaringiz bardavom bo'lsin!"
)

// NarratorService produces best-effort natural-language commentary on a
// finalized result. It never returns an error and never blocks the scoring
// pipeline; callers request it after the result view is already shown.
type NarratorService interface {
	Analyze(ctx context.Context, result *model.QuizResult) string
	CertificateGreeting(ctx context.Context, result *model.QuizResult) string
}

type geminiNarratorService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewNarratorService(cfg *config.Config) (NarratorService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Performance analysis will use fallback text.")
		return &geminiNarratorService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiNarratorService{client: client.GenerativeModel(cfg.GeminiModel), cfg: cfg}, nil
}

func (s *geminiNarratorService) Analyze(ctx context.Context, result *model.QuizResult) string {
	prompt := fmt.Sprintf(`Talabaning test natijalari tahlili:
Fan: %s
Mavzu: %s
Natija: %d/%d (Tanlangan savollardan).
Jami berilgan savollar: %d.

O'zbek tilida qisqa, professional va motivatsion tahlil bering. Natija foizini hisobga oling.`,
		result.Category, result.SubTopic, result.Score, result.AnsweredCount, result.TotalQuestions)

	return s.generateOr(ctx, prompt, analysisFallback)
}

func (s *geminiNarratorService) CertificateGreeting(ctx context.Context, result *model.QuizResult) string {
	prompt := fmt.Sprintf(`Dostonbek Academy sertifikati uchun juda qisqa (maksimal 150 ta belgi) tantanali tabrik yozing.
O'quvchi: %s. Fan: %s. Natija: %d/%d.
Faqat tabrik matnini qaytaring.`,
		result.UserName, result.Category, result.Score, result.TotalQuestions)

	return s.generateOr(ctx, prompt, greetingFallback)
}

// generateOr swallows every failure into the fixed fallback string.
func (s *geminiNarratorService) generateOr(ctx context.Context, prompt, fallback string) string {
	if s.client == nil {
		return fallback
	}
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Warn().Err(err).Msg("Gemini API error during performance analysis")
		return fallback
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates for performance analysis")
		return fallback
	}
	text := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text += string(txt)
		}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	return text
}
