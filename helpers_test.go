package complaints

import (
	"sync"
	"testing"
)

var (
	testResourcesOnce sync.Once
	testResources     *Resources
	testResourcesErr  error
)

// loadTestResources loads the English resources once per test binary.
func loadTestResources(tb testing.TB) *Resources {
	tb.Helper()
	testResourcesOnce.Do(func() {
		testResources, testResourcesErr = LoadResources(English)
	})
	if testResourcesErr != nil {
		tb.Fatalf("Failed to load resources: %v", testResourcesErr)
	}
	return testResources
}

// scenarioCorpus is a tiny two-class corpus of raw complaint text.
func scenarioCorpus() Corpus {
	return NewCorpus(
		[]string{
			"My card was stolen and I am upset",
			"Stolen card",
			"Loan payment question",
		},
		[]string{"Fraud", "Fraud", "Loan"},
	)
}

// fitScenarioPipeline fits a pipeline that normalizes the scenario corpus.
func fitScenarioPipeline(tb testing.TB) *Pipeline {
	tb.Helper()
	res := loadTestResources(tb)
	trainer := NewTrainer(func() TrainingConfig {
		c := DefaultTrainingConfig()
		c.NormalizeCorpus = true
		return c
	}(), NewNormalizer(res))

	p, _, _, err := trainer.Train(scenarioCorpus())
	if err != nil {
		tb.Fatalf("Failed to train: %v", err)
	}
	return p
}
