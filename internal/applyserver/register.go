// Package applyserver exposes the application-assistant pipeline as MCP
// tools: resume parsing and profiling, job fetch/search, ATS checks,
// tailoring, and the confirmation-gated apply/track flow.
package applyserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_apply/internal/engine/store"
)

// Tool result statuses for operations that degrade to prompt passing
// when no LLM client is configured.
const (
	statusSuccess                 = "success"
	statusNeedsExternalCompletion = "needs_external_completion"
)

// RegisterTools registers every tool on the given MCP server. The store
// is shared by all tools that persist or look up records.
func RegisterTools(server *mcp.Server, st store.Store) {
	registerParseResume(server, st)
	registerProfileResume(server)
	registerExportResume(server)

	registerFetchJob(server, st)
	registerSearchJobs(server)

	registerATSCheck(server, st)
	registerATSCheckComplete(server)

	registerTailorResume(server, st)
	registerGenerateCoverLetter(server, st)

	registerPrepareApplication(server, st)
	registerConfirmApplication(server, st)
	registerCancelApplication(server, st)
	registerTrackApplications(server, st)
}
