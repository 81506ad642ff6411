package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/ZarakiLancelot/NutriSnap/internal/domain"
)

// GeminiConfig wires Gemini access.
type GeminiConfig struct {
	APIKey    string
	Model     string
	UseVertex bool
	Project   string
	Location  string
}

// GeminiAnalyzer talks to Gemini with structured-output schemas.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer returns an Analyzer backed by Gemini.
func NewGeminiAnalyzer(ctx context.Context, cfg GeminiConfig) (*GeminiAnalyzer, error) {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}

	clientCfg := &genai.ClientConfig{}
	if cfg.UseVertex {
		project := strings.TrimSpace(cfg.Project)
		if project == "" {
			project = strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT"))
		}
		if project == "" {
			return nil, errors.New("vertex project id missing")
		}
		location := strings.TrimSpace(cfg.Location)
		if location == "" {
			location = strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_LOCATION"))
		}
		if location == "" {
			return nil, errors.New("vertex location missing")
		}
		clientCfg.Project = project
		clientCfg.Location = location
		clientCfg.Backend = genai.BackendVertexAI
	} else {
		apiKey := strings.TrimSpace(cfg.APIKey)
		if apiKey == "" {
			apiKey = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
		}
		if apiKey == "" {
			apiKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
		}
		if apiKey == "" {
			return nil, errors.New("gemini api key missing")
		}
		clientCfg.APIKey = apiKey
		clientCfg.Backend = genai.BackendGeminiAPI
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	return &GeminiAnalyzer{client: client, model: model}, nil
}

// Close releases underlying Gemini resources.
func (g *GeminiAnalyzer) Close() error {
	return nil
}

// AnalyzeFood submits the photo with the nutrition schema and validates
// the decoded result.
func (g *GeminiAnalyzer) AnalyzeFood(ctx context.Context, img ImageInput, profile *domain.Profile, lang domain.Language) (domain.Analysis, error) {
	langName := "Spanish"
	if lang == domain.LanguageEnglish {
		langName = "English"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(img.Data, img.MIMEType),
			genai.NewPartFromText(fmt.Sprintf("Analyze this food. Respond in %s. Follow JSON schema.", langName)),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(foodSystemPrompt(profile, lang), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    foodSchema,
	})
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return domain.Analysis{}, fmt.Errorf("%w: empty response", ErrBadResponse)
	}

	var result domain.Analysis
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return domain.Analysis{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if err := ValidateAnalysis(result); err != nil {
		return domain.Analysis{}, err
	}
	return result, nil
}

// GenerateInsights submits the digest with the report schema.
func (g *GeminiAnalyzer) GenerateInsights(ctx context.Context, digestPrompt string, currencySymbol string, lang domain.Language) (domain.InsightReport, error) {
	langName := "Spanish"
	if lang == domain.LanguageEnglish {
		langName = "English"
	}

	prompt := fmt.Sprintf(`Analyze this user's data (last 15 days).

DATA:
%s

INSTRUCTIONS:
Provide a JSON response with 4 sections:
1. Financial: Spending analysis (Home vs Restaurant).
2. Emotional: Pattern recognition.
3. Health: Caloric and nutritional insights.
4. Suggestions: 2 actionable tips.

Language: %s.
Currency used: %s
`, digestPrompt, langName, currencySymbol)

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   insightSchema,
	})
	if err != nil {
		return domain.InsightReport{}, fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return domain.InsightReport{}, fmt.Errorf("%w: empty response", ErrBadResponse)
	}

	var report domain.InsightReport
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		return domain.InsightReport{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return report, nil
}

var currencyLabels = map[domain.Currency]string{
	"GTQ": "Quetzales (Q)",
	"USD": "Dólares (USD)",
	"EUR": "Euros (€)",
	"MXN": "Pesos Mexicanos (MXN)",
	"COP": "Pesos Colombianos (COP)",
	"ARS": "Pesos Argentinos (ARS)",
	"CLP": "Pesos Chilenos (CLP)",
	"PEN": "Soles Peruanos (S/)",
	"UYU": "Pesos Uruguayos (UYU)",
	"DOP": "Pesos Dominicanos (DOP)",
}

func foodSystemPrompt(profile *domain.Profile, lang domain.Language) string {
	currencyLabel := "Dólares (USD)"
	userContext := ""

	if profile != nil {
		if label, ok := currencyLabels[profile.Currency]; ok {
			currencyLabel = label
		}
		if profile.HeightCm > 0 {
			bmi := profile.WeightKg / ((profile.HeightCm / 100) * (profile.HeightCm / 100))
			userContext = fmt.Sprintf(`
USER CONTEXT:
- Profile: %d years old, %s.
- Metrics: %.0fcm, %.1fkg.
- BMI: %.1f (Use this to personalize caloric suggestions).
`, profile.Age, profile.Gender, profile.HeightCm, profile.WeightKg, bmi)
		}
	}

	langInstruction := "IMPORTANTE: RESPONDE SOLO EN ESPAÑOL."
	if lang == domain.LanguageEnglish {
		langInstruction = "IMPORTANT: RESPOND ONLY IN ENGLISH."
	}

	return fmt.Sprintf(`You are NutriSnap, an expert nutrition and home economics assistant.

Your role is double:
1. Analyze nutritional content of food.
2. Estimate the FINANCIAL COST of that dish.

%s
%s

FIRST STEP - QUALITY CHECK:
- If image is not clear food: "valid": false.

IF IMAGE IS VALID:
1. IDENTIFICATION & NUTRITION:
   - Identify dish, calories, macros, and micros.

2. FINANCIAL ANALYSIS:
   - Estimate cost to cook at home (ingredients per portion) in %s.
   - Estimate cost to buy at a restaurant/fast food in %s.
   - Calculate savings.
   - Generate a motivational message about savings.

3. CONTEXT:
   - Nutritional balance and recommendations.

IMPORTANT:
- Be conservative with prices.
- Focus on "Home Cooking" vs "Eating Out".
- Use the requested currency: %s.`, userContext, langInstruction, currencyLabel, currencyLabel, currencyLabel)
}
