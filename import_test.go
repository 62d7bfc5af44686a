package tradelog

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestImportTrades(t *testing.T) {
	export := `{
	"version": 2,
	"trades": [
		{"id": 17, "date": "2024-01-15", "positionStatus": "Closed", "plRs": 500.25, "stockMove": 4.5, "holdingDays": 3, "rewardRisk": 2},
		{"id": "x", "date": "2024-01-20", "positionStatus": "open", "plRs": "0", "stockMove": "1.5", "holdingDays": 0, "rewardRisk": null}
	]
}`
	got, err := ImportTrades(strings.NewReader(export), "", "INR")
	if err != nil {
		t.Fatalf("ImportTrades() error = %v", err)
	}
	want := []Trade{
		{ID: "17", Date: day("2024-01-15"), Status: Closed, PL: INR(500.25), StockMove: 4.5, HoldingDays: 3, RewardRisk: 2},
		{ID: "x", Date: day("2024-01-20"), Status: Open, PL: INR(0), StockMove: 1.5},
	}
	if diff := cmp.Diff(want, got, moneyCmp); diff != "" {
		t.Errorf("ImportTrades() mismatch (-want +got):\n%s", diff)
	}
}

func TestImportTradesCustomPath(t *testing.T) {
	export := `{"journal": {"entries": [{"date": "2024-02-01", "positionStatus": "Partial", "plRs": -10}]}}`
	got, err := ImportTrades(strings.NewReader(export), "$.journal.entries[*]", "INR")
	if err != nil {
		t.Fatalf("ImportTrades() error = %v", err)
	}
	if len(got) != 1 || got[0].Status != Partial || !got[0].PL.Equal(INR(-10)) {
		t.Errorf("ImportTrades() = %v, want one partial trade of -10", got)
	}
}

func TestImportTradesErrors(t *testing.T) {
	export := `{"trades": [
		{"date": "2024-02-01", "positionStatus": "Closed"},
		{"positionStatus": "Closed"},
		{"date": "2024-02-03", "positionStatus": "Sold"},
		{"date": "2024-02-04", "positionStatus": "Closed", "plRs": "a lot"}
	]}`
	_, err := ImportTrades(strings.NewReader(export), "", "INR")
	if err == nil {
		t.Fatalf("ImportTrades() = nil error, want error")
	}
	for _, want := range []string{"trade 1:", "trade 2:", "trade 3:"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("ImportTrades() error %q does not contain %q", err, want)
		}
	}
	if strings.Contains(err.Error(), "trade 0:") {
		t.Errorf("ImportTrades() error %q reports the valid trade 0", err)
	}
}
