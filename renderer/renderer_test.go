package renderer

import (
	"flag"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/date"
	"github.com/rs/zerolog"
)

var fixGoldens = flag.Bool("fix-goldens", false, "if true, update failing golden .md files with the received output")

func TestFixGoldensIsOff(t *testing.T) {
	if *fixGoldens {
		t.Fatal("-fix-goldens is enabled. This flag should only be used for updating test fixtures and must be disabled for regular tests.")
	}
}

// testReport is a chained year: +100 every month, a mixed January, a deposit and no
// realized trade in December.
func testReport(t *testing.T) *YearReport {
	t.Helper()
	inr := func(v float64) tradelog.Money { return tradelog.M(v, "INR") }
	trades := []tradelog.Trade{
		{Date: date.MustParse("2024-01-12"), Status: tradelog.Closed, PL: inr(-50), StockMove: -1, HoldingDays: 2, RewardRisk: 0.5},
		{Date: date.MustParse("2024-01-20"), Status: tradelog.Open, PL: inr(0)},
		{Date: date.MustParse("2024-12-10"), Status: tradelog.Open, PL: inr(0)},
	}
	for m := range 11 {
		trades = append(trades, tradelog.Trade{
			Date:        date.New(2024, 1, 10).AddMonth(m),
			Status:      tradelog.Closed,
			PL:          inr(100),
			StockMove:   2,
			HoldingDays: 5,
			RewardRisk:  1.5,
		})
	}
	store := tradelog.NewCapitalChangeStore(zerolog.Nop())
	if err := store.Add(tradelog.NewCapitalChange(date.MustParse("2024-12-05"), inr(1000), "bonus")); err != nil {
		t.Fatal(err)
	}
	sizes := tradelog.NewSizeHistory("INR")
	sizes.SetPortfolioSize(inr(10000), date.MustParseYearMonth("2024-01"))

	l := tradelog.NewLedger(trades, store, sizes, tradelog.WithChaining(tradelog.ChainFromPreviousMonth))
	return NewYearReport(l, 2024)
}

func checkGolden(t *testing.T, goldenFile, got string) {
	t.Helper()
	want, err := os.ReadFile(goldenFile)
	if err != nil && !*fixGoldens {
		t.Fatalf("cannot read golden file %s: %v", goldenFile, err)
	}
	if string(want) == got {
		return
	}
	if *fixGoldens {
		if err := os.WriteFile(goldenFile, []byte(got), 0o644); err != nil {
			t.Fatalf("cannot update %s: %v", goldenFile, err)
		}
		t.Logf("updated golden file %s", goldenFile)
		return
	}
	t.Errorf("%s mismatch:\n%s", goldenFile, createDiff(string(want), got))
}

func TestYearPartials(t *testing.T) {
	report := testReport(t)
	for name, file := range yearPartials {
		t.Run(name, func(t *testing.T) {
			got := renderTemplate(name, file, nil, report)
			checkGolden(t, filepath.Join("testdata", name+".md"), got)
		})
	}
}

func TestYearAssemblies(t *testing.T) {
	report := testReport(t)
	testCases := []struct {
		name   string
		render func(*YearReport) string
	}{
		{name: "year", render: YearMarkdown},
		{name: "returns", render: ReturnsMarkdown},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			checkGolden(t, filepath.Join("testdata", tc.name+"_assembly.md"), tc.render(report))
		})
	}
}

func TestEveryTemplateIsTested(t *testing.T) {
	entries, err := fs.ReadDir(templates, ".")
	if err != nil {
		t.Fatalf("failed to read embedded templates: %v", err)
	}
	for _, e := range entries {
		name := e.Name()
		base := strings.TrimSuffix(name, ".md")
		if _, ok := yearPartials[base]; ok {
			continue
		}
		if _, err := os.Stat(filepath.Join("testdata", base+"_assembly.md")); err != nil {
			t.Errorf("untested template found: %s. Please add a golden file.", name)
		}
	}
}

func TestFormatReturn(t *testing.T) {
	testCases := []struct {
		r    tradelog.RollingReturn
		want string
	}{
		{r: tradelog.RollingReturn{Return: 12.5, Status: tradelog.Computed}, want: "12.50%"},
		{r: tradelog.RollingReturn{Status: tradelog.InsufficientHistory}, want: "n/a"},
		{r: tradelog.RollingReturn{Status: tradelog.NoSolution}, want: "0.00%"},
	}
	for _, tc := range testCases {
		if got := formatReturn(tc.r); got != tc.want {
			t.Errorf("formatReturn(%v) = %q, want %q", tc.r.Status, got, tc.want)
		}
	}
}

func createDiff(want, got string) string {
	// A simple diff-like representation for clearer test failures.
	return "-" + strings.ReplaceAll(want, "\n", "\n-") + "\n+" + strings.ReplaceAll(got, "\n", "\n+")
}
