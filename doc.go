// Package tradelog computes the monthly capital ledger of a trading journal and its
// annualized returns.
//
// The core functionalities include:
//   - Capital changes: dated deposits and withdrawals kept in a CapitalChangeStore and
//     persisted by a Repository (JSONL files, or SQLite in package sqlite).
//   - Monthly ledger: a Ledger turns read-only trades, capital changes, portfolio size
//     anchors and starting capital overrides into the 12 MonthlyCapitalRecord of a year,
//     with exact decimal arithmetic. SetNetChange and SetStartingCapital are the only
//     edits.
//   - Returns: Returns annualizes the capital of a month over YTD and rolling 1, 3, 6
//     and 12 month windows, with an XIRR solver on a CashFlowSeries.
//   - Trades: trades are imported from a JSON journal export selected by a jsonpath
//     expression.
//
// This package is the engine of the `tlg` command-line tool.
package tradelog
