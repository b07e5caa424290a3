package gradersvc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/maktabhub/maktab/core"
)

// dummyService returns a canned Analysis without calling out. It backs local
// dev (no API key) and tests.
type dummyService struct {
	analysis core.Analysis
	err      error
}

var _ core.Grader = (*dummyService)(nil)

func NewDummyService() core.Grader {
	return &dummyService{
		analysis: core.Analysis{
			Accuracy:    80,
			Errors:      []string{},
			Explanation: "Yechim asosan to'g'ri.",
			Alternatives: []string{
				"Tenglamani grafik usulda yechish",
				"Qiymatlarni jadval orqali tekshirish",
				"Teskari amaldan foydalanish",
			},
			Advice: "Hisob-kitoblarni qayta tekshiring.",
		},
	}
}

// NewDummyServiceWithResult returns a grader yielding exactly the given Analysis.
func NewDummyServiceWithResult(analysis core.Analysis) core.Grader {
	return &dummyService{analysis: analysis}
}

// NewFailingDummyService returns a grader whose every call fails, for
// exercising the no-submission-on-failure path.
func NewFailingDummyService() core.Grader {
	return &dummyService{err: errors.New("oracle unavailable")}
}

func (svc *dummyService) Analyze(_ context.Context, _ []byte, _ string) (core.Analysis, error) {
	if svc.err != nil {
		return core.Analysis{}, svc.err
	}
	return svc.analysis, nil
}
