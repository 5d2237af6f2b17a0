package sim

import (
	"context"
	"errors"
	"testing"
)

func TestEnsembleMatchesSerialRuns(t *testing.T) {
	ens := NewEnsemble(buildCrawler, 4, 10)
	ens.SetLimit(2)

	results, err := ens.Run(context.Background(), Config{Ticks: 150})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, res := range results {
		serial, err := crawlerSim(t, 10+int64(i)).Run(context.Background(), Config{Ticks: 150})
		if err != nil {
			t.Fatal(err)
		}
		if d := FirstDivergence(res, serial); d != -1 {
			t.Errorf("seed %d: ensemble run diverges from serial run at frame %d", 10+i, d)
		}
	}
}

func TestEnsembleFactoryError(t *testing.T) {
	boom := errors.New("boom")
	factory := func(seed int64) (*Simulator, error) {
		if seed == 2 {
			return nil, boom
		}
		return buildCrawler(seed)
	}
	_, err := NewEnsemble(factory, 4, 0).Run(context.Background(), Config{Ticks: 10})
	if !errors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}
}
