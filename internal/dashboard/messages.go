package dashboard

import (
	"github.com/rxtech-lab/marketlens/internal/analytic"
	"github.com/rxtech-lab/marketlens/internal/frame"
)

// PanelLoadedMsg carries the full price panel after the initial load.
type PanelLoadedMsg struct {
	Prices frame.Frame
}

// AnalysisMsg carries a finished analysis pass over the selected slice.
type AnalysisMsg struct {
	Prices frame.Frame
	Result analytic.Result
}

// AnalysisWarnMsg signals a recoverable precondition failure (for example a
// date range shorter than the rolling window). The dashboard shows a warning
// instead of crashing.
type AnalysisWarnMsg struct {
	Warning string
}

// LoadErrMsg indicates the price panel could not be loaded.
type LoadErrMsg struct {
	Err error
}
