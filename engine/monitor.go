package engine

import (
	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/rank"
	"github.com/minbar-ai/minbar/websearch"
)

// QueryMonitor provides hooks to observe a query as it moves through the
// pipeline. Implement this interface to track intermediate steps, e.g. for
// CLI progress output or debugging retrieval quality.
type QueryMonitor interface {
	Start(query string)
	SessionResolved(session *core.Session, created bool)
	AfterEmbedding(vector []float32)
	AfterLocalRanking(kind core.CorpusKind, results []rank.Result)
	WebFallbackTriggered(localParts int)
	AfterWebSearch(results []websearch.Result)
	AfterGeneration(response string)
	Finish(response *Response)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                                     {}
func (n *noopMonitor) SessionResolved(_ *core.Session, _ bool)            {}
func (n *noopMonitor) AfterEmbedding(_ []float32)                        {}
func (n *noopMonitor) AfterLocalRanking(_ core.CorpusKind, _ []rank.Result) {}
func (n *noopMonitor) WebFallbackTriggered(_ int)                         {}
func (n *noopMonitor) AfterWebSearch(_ []websearch.Result)                {}
func (n *noopMonitor) AfterGeneration(_ string)                           {}
func (n *noopMonitor) Finish(_ *Response)                                 {}
