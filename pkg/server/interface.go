/*
Package server implements msgpack IPC for command suggestions.

The server reads a stream of msgpack maps from stdin and answers each one with a
single msgpack map on stdout. Requests are handled one at a time and every
response carries the ID of the request it answers.

# IPC

On start the server writes a ready message:

	{"status": "ready"}

Completion requests carry a prefix. The action may be omitted:

	{"id": "req_001", "p": "tel"}

The server responds with at most five suggestions in ascending order, ranked from 1:

	{"id": "req_001", "s": [{"w": "teleport", "r": 1}, {"w": "tell", "r": 2}], "c": 2, "t": 12, "f": false}

"t" is the lookup time in microseconds and "f" is set when no command starts
with the prefix and the result came from the edit distance fallback.

Fuzzy lookups search by edit distance directly, "d" defaults to the configured threshold:

	{"id": "req_002", "action": "fuzzy", "q": "teleprot", "d": 2}

Vocabulary management:

	{"id": "req_003", "action": "insert", "w": ["noclip", "god"]}
	{"id": "req_004", "action": "clear"}
	{"id": "req_005", "action": "reload"}
	{"id": "req_006", "action": "stats"}
	{"id": "req_007", "action": "health"}

Engine settings can be changed at runtime and are saved to the config file:

	{"id": "req_008", "action": "config", "d": 1, "fb": true}

# Message Types

CompletionResponse answers "complete" and "fuzzy". StatusResponse answers the
management actions. Any failure is reported as a CompletionError with code 400
for bad requests and 500 for server side failures; the server keeps running.
*/
package server

// Actions understood by the server.
const (
	ActionComplete = "complete"
	ActionFuzzy    = "fuzzy"
	ActionInsert   = "insert"
	ActionClear    = "clear"
	ActionReload   = "reload"
	ActionStats    = "stats"
	ActionConfig   = "config"
	ActionHealth   = "health"
)

// Request is the envelope of every message sent to the server
type Request struct {
	ID        string   `msgpack:"id"`
	Action    string   `msgpack:"action,omitempty"`
	Prefix    string   `msgpack:"p,omitempty"`
	Query     string   `msgpack:"q,omitempty"`
	Threshold *int     `msgpack:"d,omitempty"`
	Words     []string `msgpack:"w,omitempty"`
	Fallback  *bool    `msgpack:"fb,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
	Fuzzy       bool                   `msgpack:"f"`
}

// StatusResponse - management operation response
type StatusResponse struct {
	ID     string         `msgpack:"id,omitempty"`
	Status string         `msgpack:"status"`
	Count  int            `msgpack:"c,omitempty"`
	Stats  map[string]int `msgpack:"stats,omitempty"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
