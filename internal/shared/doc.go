// Package shared holds helpers used by more than one internal package.
//
// The testutil subpackage provides a capturing slog handler and a builder
// for daily production exports, so packages above dataprocessing can test
// against realistic documents without reaching into its testdata.
//
//	logger, logs := testutil.NewTestLogger(t)
//	doc := testutil.NewProductionCSV().Set(10, 1, "2000").String()
package shared
