package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Expert is a Gemini model with a fixed role. Every question is answered
// independently: an Expert keeps no history.
type Expert struct {
	Name      string                       `json:"name"`
	ModelName string                       `json:"model_name"`
	Config    *genai.GenerateContentConfig `json:"config"`
	client    *genai.Client
}

// Start binds the expert to a Gemini client.
func (e *Expert) Start(client *genai.Client) { e.client = client }

// Ask sends parts as a single user turn and returns the model's answer.
func (e *Expert) Ask(ctx context.Context, parts ...*genai.Part) (*genai.Content, error) {
	if e.client == nil {
		return nil, fmt.Errorf("expert %s is not started", e.Name)
	}
	resp, err := e.client.Models.GenerateContent(ctx, e.ModelName, []*genai.Content{{Role: genai.RoleUser, Parts: parts}}, e.Config)
	if err != nil {
		return nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from expert %s", e.Name)
	}
	return resp.Candidates[0].Content, nil
}
