package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minbar-ai/minbar/ai"
	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/prompt"
	"github.com/minbar-ai/minbar/quota"
	"github.com/minbar-ai/minbar/rank"
	"github.com/minbar-ai/minbar/storage"
	"github.com/minbar-ai/minbar/websearch"
)

// minLocalParts is the number of local context passages below which the web
// fallback is consulted.
const minLocalParts = 2

// Request is one inbound question.
type Request struct {
	// Query is the question text. Must be non-empty.
	Query string

	// SessionId continues an existing session when non-zero. The session
	// must belong to the requesting user. When zero, a new session is
	// created titled after the query.
	SessionId core.ID

	// Mode selects standard or comparative answering. Empty means standard.
	Mode core.QueryMode
}

// Source is one piece of context the answer drew on.
type Source struct {
	Type    string // "verse", "narration", "ruling" or "web"
	Id      core.ID
	Content string
}

// Response is the structured answer to one query.
type Response struct {
	Response     string
	SourcesFound bool
	Citations    []string
	Sources      []Source
	SessionId    core.ID
	SessionTitle string
}

// Engine runs queries through the retrieval-and-generation pipeline.
type Engine struct {
	corpus    storage.CorpusRepository
	sessions  storage.SessionRepository
	history   storage.HistoryRepository
	quota     *quota.Manager
	embedder  ai.Embedder
	generator ai.Generator
	web       websearch.Client
	topK      int
	threshold float32
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithWebSearch sets the web search client used when local context is thin.
// Without one, the fallback stage yields no supplement.
func WithWebSearch(client websearch.Client) Option {
	return func(e *Engine) error {
		e.web = client
		return nil
	}
}

// WithRanking overrides the top-k and similarity threshold used for local
// retrieval. Defaults are rank.DefaultTopK and rank.DefaultThreshold.
func WithRanking(topK int, threshold float32) Option {
	return func(e *Engine) error {
		e.topK = topK
		e.threshold = threshold
		return nil
	}
}

// NewEngine creates a query engine.
func NewEngine(
	corpus storage.CorpusRepository,
	users storage.UserRepository,
	sessions storage.SessionRepository,
	history storage.HistoryRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Engine, error) {
	if corpus == nil {
		return nil, ErrCorpusRepositoryRequired
	}
	if users == nil {
		return nil, ErrUserRepositoryRequired
	}
	if sessions == nil {
		return nil, ErrSessionRepositoryRequired
	}
	if history == nil {
		return nil, ErrHistoryRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	e := &Engine{
		corpus:    corpus,
		sessions:  sessions,
		history:   history,
		quota:     quota.NewManager(users),
		embedder:  provider.Embedder(),
		generator: provider.Generator(),
		topK:      rank.DefaultTopK,
		threshold: rank.DefaultThreshold,
		logger:    slog.Default().With("component", "engine"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Answer runs one query through the pipeline for the given user.
// Returns quota.ErrQuotaExceeded when the user's daily budget is exhausted
// and storage.ErrNotFound when the requested session is absent or foreign.
// Retrieval failures never surface here; they degrade the context instead.
func (e *Engine) Answer(ctx context.Context, userID core.ID, req *Request) (*Response, error) {
	return e.AnswerWithMonitor(ctx, userID, req, nil)
}

// AnswerWithMonitor runs one query through the pipeline with monitoring.
// The monitor receives callbacks at each stage.
func (e *Engine) AnswerWithMonitor(ctx context.Context, userID core.ID, req *Request, monitor QueryMonitor) (*Response, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, core.ErrEmptyQuery
	}
	monitor.Start(query)

	// 1. Quota gate. The one stage that denies a query outright, and it
	// must run before any external call is paid for.
	user, err := e.quota.Allow(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 2. Session resolution
	session, created, err := e.resolveSession(ctx, userID, req.SessionId, query)
	if err != nil {
		return nil, err
	}
	monitor.SessionResolved(session, created)

	// 3. Embed the query. Failure degrades to an empty ranking, which
	// pushes the query onto the web fallback path.
	var queryVector []float32
	if vector, err := e.embedder.EmbedText(ctx, query); err != nil {
		e.logger.Warn("query embedding unavailable, retrieval degraded", "err", err)
	} else {
		queryVector = vector
	}
	monitor.AfterEmbedding(queryVector)

	// 4. Rank the local corpus per kind
	var (
		contextParts []string
		citations    []string
		sources      []Source
	)
	for _, kind := range core.CorpusKinds {
		candidates, err := e.corpus.ListByKind(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("listing %s corpus: %w", kind, err)
		}
		results := rank.Rank(queryVector, candidates, e.topK, e.threshold)
		monitor.AfterLocalRanking(kind, results)

		for _, result := range results {
			item := result.Item
			contextParts = append(contextParts, item.Reference+" - "+item.Text())
			citations = append(citations, item.Reference)
			sources = append(sources, Source{
				Type:    kind.String(),
				Id:      item.Id,
				Content: item.Text(),
			})
		}
	}
	localContext := strings.Join(contextParts, "\n\n")

	// 5. Web fallback when the local context is thin
	var webContext string
	if len(contextParts) < minLocalParts || localContext == "" {
		monitor.WebFallbackTriggered(len(contextParts))
		if e.web != nil {
			results := e.web.Search(ctx, query)
			monitor.AfterWebSearch(results)
			webContext = websearch.FormatContext(results)
			for _, result := range results {
				citations = append(citations, result.URL)
				sources = append(sources, Source{
					Type:    "web",
					Content: result.Content,
				})
			}
		}
	}

	// 6. Assemble the prompt and generate. Generate encodes backend
	// failure into its return value, so the answer below is persisted
	// whatever happened.
	mode := req.Mode
	if mode == "" {
		mode = core.ModeStandard
	}
	systemPrompt := prompt.Build(localContext, webContext, user.Locale, user.School, mode)
	answer := e.generator.Generate(ctx, systemPrompt, query)
	monitor.AfterGeneration(answer)

	// 7. Persist the turn and count it against the daily budget
	turn := &core.ConversationTurn{
		SessionId: session.Id,
		UserId:    user.Id,
		Query:     query,
		Response:  answer,
		Locale:    user.Locale,
	}
	if _, err := e.history.RecordTurn(ctx, turn); err != nil {
		return nil, fmt.Errorf("recording conversation turn: %w", err)
	}

	response := &Response{
		Response:     answer,
		SourcesFound: len(contextParts) > 0 || webContext != "",
		Citations:    dedupe(citations),
		Sources:      sources,
		SessionId:    session.Id,
		SessionTitle: session.Title,
	}
	monitor.Finish(response)

	return response, nil
}

// resolveSession returns the session the turn belongs to, creating one
// titled after the query when no session ID was supplied. A supplied ID
// must name a session owned by the requesting user; absent and foreign
// sessions both report storage.ErrNotFound.
func (e *Engine) resolveSession(ctx context.Context, userID, sessionID core.ID, query string) (*core.Session, bool, error) {
	if sessionID == 0 {
		session, err := e.sessions.AddSession(ctx, &core.Session{
			UserId: userID,
			Title:  core.TitleFromQuery(query),
		})
		if err != nil {
			return nil, false, fmt.Errorf("creating session: %w", err)
		}
		return session, true, nil
	}

	session, err := e.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	if session.UserId != userID {
		return nil, false, storage.ErrNotFound
	}
	return session, false, nil
}

// dedupe removes duplicate citations, keeping first-seen order.
func dedupe(citations []string) []string {
	seen := make(map[string]bool, len(citations))
	unique := citations[:0]
	for _, c := range citations {
		if seen[c] {
			continue
		}
		seen[c] = true
		unique = append(unique, c)
	}
	return unique
}
