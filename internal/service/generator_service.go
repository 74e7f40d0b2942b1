package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dostonbek/testplatform/config"
	"github.com/dostonbek/testplatform/internal/dto"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// ErrGenerationFailed covers every failure of the generation service: the
// call errored, the payload did not parse, or the set came back empty.
// Callers treat all of these uniformly; there is no partial-success mode and
// no retry here.
var ErrGenerationFailed = errors.New("question generation failed")

// QuestionGeneratorService turns a quiz configuration into a fixed-shape set
// of multiple-choice questions.
type QuestionGeneratorService interface {
	GenerateQuestions(ctx context.Context, cfg dto.QuizConfig) ([]dto.Question, error)
}

type geminiQuestionService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewQuestionGeneratorService(cfg *config.Config) (QuestionGeneratorService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Question generation will be non-functional.")
		return &geminiQuestionService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.GeminiModel)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = questionArraySchema()
	return &geminiQuestionService{client: model, cfg: cfg}, nil
}

// questionArraySchema pins the response to the Question wire shape: exactly
// four options, one correct index, all five fields required per item.
func questionArraySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"id":   {Type: genai.TypeInteger},
				"text": {Type: genai.TypeString},
				"options": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"correctAnswerIndex": {Type: genai.TypeInteger},
				"explanation":        {Type: genai.TypeString},
			},
			Required: []string{"id", "text", "options", "correctAnswerIndex", "explanation"},
		},
	}
}

func buildGenerationPrompt(cfg dto.QuizConfig) string {
	var b strings.Builder
	b.WriteString("Dostonbek Academy ta'lim platformasi uchun professional test savollarini yarating.\n\n")
	b.WriteString("DIQQAT: SAVOLLAR FAQAT QUYIDAGI ANIQ MAVZUGA OID BO'LISHI SHART!\n\n")
	b.WriteString(fmt.Sprintf("Fan: %s\n", cfg.Category))
	b.WriteString(fmt.Sprintf("Yo'nalish: %s\n", cfg.Topic))
	b.WriteString(fmt.Sprintf("ANIQ MAVZU: %s\n", cfg.SubTopic))
	b.WriteString(fmt.Sprintf("Qiyinchilik darajasi: %s\n", cfg.DifficultyLabel()))
	b.WriteString(fmt.Sprintf("Savollar soni: %d\n", cfg.QuestionCount))
	b.WriteString("Til: O'zbek tili\n")
	b.WriteString("Format: JSON array\n\n")
	b.WriteString("Xususiyatlar:\n")
	b.WriteString("1. Har bir savol 4 ta variantdan iborat bo'lsin.\n")
	b.WriteString("2. Faqat bitta to'g'ri javob indeksi (0-3) bo'lsin.\n")
	b.WriteString("3. Izoh (explanation) qismi ilmiy va tushunarli bo'lsin.\n")
	b.WriteString(fmt.Sprintf("4. Savollar mazmunan \"%s\" mavzusini to'liq qamrab olsin.\n", cfg.SubTopic))
	return b.String()
}

func (s *geminiQuestionService) GenerateQuestions(ctx context.Context, cfg dto.QuizConfig) ([]dto.Question, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: gemini client not initialized", ErrGenerationFailed)
	}

	prompt := buildGenerationPrompt(cfg)
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("subTopic", cfg.SubTopic).Msg("Gemini API error during question generation")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates for question generation")
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	raw := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw += string(txt)
		}
	}

	questions, err := parseQuestions(raw)
	if err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Failed to parse generated questions")
		return nil, err
	}
	log.Info().Int("count", len(questions)).Str("subTopic", cfg.SubTopic).Msg("Questions generated")
	return questions, nil
}

// parseQuestions decodes the model output into the Question shape. Only total
// parse failure (or an empty set) is rejected; individual items are trusted
// as returned.
func parseQuestions(raw string) ([]dto.Question, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty payload", ErrGenerationFailed)
	}
	var questions []dto.Question
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, fmt.Errorf("%w: unparseable payload: %v", ErrGenerationFailed, err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: provider returned no questions", ErrGenerationFailed)
	}
	return questions, nil
}

// stripCodeFences tolerates models that wrap JSON in markdown fences despite
// the JSON response mode.
func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}
