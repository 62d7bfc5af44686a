package cmd

import (
	"github.com/etnz/tradelog/config"
	"github.com/etnz/tradelog/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the tlg command line for shell completion.
func Completion() *complete.Command {
	months := predict.Something
	report := map[string]complete.Predictor{"y": predict.Something, "json": predict.Nothing}
	topics, _ := docs.GetAllTopics()

	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config":   predict.Files("*.yaml"),
			"data-dir": predict.Dirs("*"),
			"storage":  predict.Set{config.JSONL, config.SQLite},
			"chain":    predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"ledger":     {Flags: report},
			"returns":    {Flags: report},
			"size":       {Flags: map[string]complete.Predictor{"m": months, "v": predict.Something}},
			"capital":    {Flags: map[string]complete.Predictor{"m": months, "v": predict.Something, "clear": predict.Nothing}},
			"net-change": {Flags: map[string]complete.Predictor{"m": months, "v": predict.Something}},
			"changes":    {Flags: map[string]complete.Predictor{"m": months}},
			"import":     {Flags: map[string]complete.Predictor{"f": predict.Files("*.json"), "path": predict.Something}},
			"topic":      {Args: predict.Set(append(topics, "*"))},
		},
	}
}
