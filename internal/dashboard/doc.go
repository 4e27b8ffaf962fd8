// Package dashboard builds and renders the production dashboard page.
//
// Build maps a ProductionRecord and the state of the load cycle onto a View:
// four metric cards, the on-time, in-full and rework panels and the summary
// totals, with every figure already formatted for en-GB. Renderer executes
// the embedded HTML template against a View.
package dashboard
