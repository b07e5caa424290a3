package gradersvc

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/maktabhub/maktab/core"
)

// The instruction is kept in Uzbek: the model answers in the language it is
// prompted in, and the UI audience is Uzbek-speaking.
const analysisPrompt = `Ushbu topshiriqni tahlil qiling (OCR).
Javobni FAQAT JSON formatida va O'zbek tilida bering.
Natija tarkibi:
1. accuracy: To'g'rilik foizi (0-100).
2. errors: Topilgan xatolar ro'yxati.
3. explanation: To'g'ri yechimning batafsil tushuntirilishi.
4. alternatives: Masalani yechishning kamida 3 ta boshqa muqobil usuli.
5. advice: O'quvchiga individual maslahat.`

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"accuracy":     {Type: genai.TypeNumber},
		"errors":       {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"explanation":  {Type: genai.TypeString},
		"alternatives": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"advice":       {Type: genai.TypeString},
	},
	Required: []string{"accuracy", "errors", "explanation", "alternatives", "advice"},
}

type geminiService struct {
	client *genai.Client
	model  string
	logger core.Logger
}

var _ core.Grader = (*geminiService)(nil)

func NewGeminiService(ctx context.Context, logger core.Logger) (core.Grader, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  core.Conf.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating gemini client")
	}
	return &geminiService{
		client: client,
		model:  core.Conf.Gemini.Model,
		logger: logger,
	}, nil
}

// Analyze makes a single scoring call; there is no retry. The response is
// constrained to the analysis JSON schema.
func (svc *geminiService) Analyze(ctx context.Context, data []byte, mimeType string) (core.Analysis, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{
			{Text: analysisPrompt},
			{InlineData: &genai.Blob{MIMEType: normalizeMIMEType(mimeType), Data: data}},
		},
	}}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   analysisSchema,
	}

	resp, err := svc.client.Models.GenerateContent(ctx, svc.model, contents, config)
	if err != nil {
		svc.logger.Error("gemini call failed", err)
		return core.Analysis{}, errors.Wrap(err, "calling gemini")
	}

	var raw struct {
		Accuracy     float64  `json:"accuracy"`
		Errors       []string `json:"errors"`
		Explanation  string   `json:"explanation"`
		Alternatives []string `json:"alternatives"`
		Advice       string   `json:"advice"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(resp.Text())), &raw); err != nil {
		return core.Analysis{}, errors.Wrap(err, "decoding gemini response")
	}

	return core.Analysis{
		Accuracy:     int(math.Round(raw.Accuracy)),
		Errors:       raw.Errors,
		Explanation:  raw.Explanation,
		Alternatives: raw.Alternatives,
		Advice:       raw.Advice,
	}, nil
}

// normalizeMIMEType maps any image upload to jpeg and everything else to PDF,
// the only two payload kinds the scoring prompt handles.
func normalizeMIMEType(mimeType string) string {
	if strings.Contains(mimeType, "image") {
		return "image/jpeg"
	}
	return "application/pdf"
}
