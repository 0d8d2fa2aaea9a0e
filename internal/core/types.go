package core

const (
	AtlasName          = "Atlas"
	AtlasUserAgent     = "Atlas-Assistant/0.1"
	AtlasRepositoryURL = "https://github.com/sandevgo/atlas"
	AtlasVersion       = "0.1.0"
)

// KnowledgeEntry is one remembered exchange, immutable once stored.
type KnowledgeEntry struct {
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp int64  `json:"timestamp"` // epoch ms
}

// ScoredEntry is a KnowledgeEntry ranked against a query.
type ScoredEntry struct {
	KnowledgeEntry
	Score float64 `json:"score"`
}

// ConversationTurn is one user/bot exchange in a session.
type ConversationTurn struct {
	User      string `json:"user"`
	Bot       string `json:"bot"`
	Timestamp int64  `json:"timestamp"` // epoch ms
}

// DocumentState tracks an oversized document split into chunks so follow-up
// requests can walk it chunk by chunk.
type DocumentState struct {
	Chunks        []string `json:"chunks"`
	TotalChunks   int      `json:"totalChunks"`
	LastProcessed int      `json:"lastProcessedChunk"`
}

// Reply is the outcome of a generation round-trip. Offline marks the fixed
// degraded answer produced after retry exhaustion; callers must branch on
// the flag, never on the reply text.
type Reply struct {
	Text    string
	Offline bool
	Canned  bool
}
