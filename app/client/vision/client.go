package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"proplens/app/config"

	"github.com/samber/do"
	"github.com/sashabaranov/go-openai"
)

const maxDetectDuration = 30 * time.Second

// Detection is one raw label/score pair from the vision step. Scores are
// expected in [0,1] but are not trusted; the normalizer clamps them.
type Detection struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	// Where in the image the issue was seen, if the model reported it
	Region string `json:"region,omitempty"`
}

// Detector is the vision inference collaborator.
type Detector interface {
	Detect(ctx context.Context, image []byte, mimeType string) ([]Detection, error)
}

const detectPrompt = `You are inspecting a property photo for visible defects.
Score each of the following issue categories independently between 0 and 1 for how
clearly it is visible in the image: water damage, mold growth, structural cracks,
electrical issues, plumbing problems, paint peeling, broken fixtures, ceiling damage,
wall damage, floor damage, window issues, poor lighting.
Respond with JSON: {"detections": [{"label": "...", "score": 0.0, "region": "..."}]}.
Omit categories that are not visible at all. The region field is a short description
of where in the image the issue appears and may be omitted.`

type detectResponse struct {
	Detections []Detection `json:"detections"`
}

type Client struct {
	client *openai.Client
	model  string
}

var _ Detector = (*Client)(nil)

func New(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	clientConfig := openai.DefaultConfig(cfg.OpenAI.Vision.Token)
	clientConfig.BaseURL = cfg.OpenAI.Vision.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: maxDetectDuration,
	}

	return &Client{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.OpenAI.Vision.Model,
	}, nil
}

func (c *Client) Detect(ctx context.Context, image []byte, mimeType string) ([]Detection, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))

	ctx, cancel := context.WithTimeout(ctx, maxDetectDuration)
	defer cancel()

	aiResponse, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role: openai.ChatMessageRoleUser,
					MultiContent: []openai.ChatMessagePart{
						{
							Type: openai.ChatMessagePartTypeText,
							Text: detectPrompt,
						},
						{
							Type: openai.ChatMessagePartTypeImageURL,
							ImageURL: &openai.ChatMessageImageURL{
								URL: dataURL,
							},
						},
					},
				},
			},
			MaxCompletionTokens: 1000,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		return nil, fmt.Errorf("no chat completion found")
	}

	result := aiResponse.Choices[0].Message.Content
	result = strings.Trim(result, "`")
	result = strings.TrimSpace(result)
	result = strings.TrimPrefix(result, "json")
	result = strings.TrimSpace(result)

	var response detectResponse
	if err = json.Unmarshal([]byte(result), &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return response.Detections, nil
}
