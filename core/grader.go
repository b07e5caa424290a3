package core

import "context"

type (
	// Analysis is the result of scoring one homework upload.
	// Accuracy is a 0-100 percentage; Alternatives lists other ways to solve the task.
	Analysis struct {
		Accuracy     int      `json:"accuracy"`
		Errors       []string `json:"errors"`
		Explanation  string   `json:"explanation"`
		Alternatives []string `json:"alternatives"`
		Advice       string   `json:"advice"`
	}

	// Grader is any service that can OCR and score a homework file (image or PDF).
	// It is stateless and makes a single attempt per call; a failed call yields no Analysis.
	Grader interface {
		Analyze(ctx context.Context, data []byte, mimeType string) (Analysis, error)
	}
)
