/*
Package server implements msgpack IPC for subsequence word search.

Clients write a stream of msgpack maps to stdin and read msgpack maps from
stdout. Every request carries an ID that is echoed in the response, so
responses may arrive out of order when several requests are in flight.

The server first writes a ready frame:

	{"status": "ready"}

A query request:

	{"id": "q1", "op": "query", "p": "cat", "n": 5, "sort": "zipf"}

is answered with the best matches and the total match count:

	{"id": "q1", "p": "cat", "r": [{"w": "cat", "z": 5.1, "g": 0, "r": 1}], "t": 412, "us": 830}

Other ops: "hints" (match count per extra letter), "stats" (corpus info),
"bench" (procedure timings). Failures come back as

	{"id": "q1", "e": "unknown procedure: \"fast\"", "c": 400}
*/
package server

// Request is any client message. Pointer fields are optional overrides of
// the configured defaults.
type Request struct {
	ID          string `msgpack:"id"`
	Op          string `msgpack:"op"`
	Pattern     string `msgpack:"p,omitempty"`
	TopN        *int   `msgpack:"n,omitempty"`
	Procedure   string `msgpack:"proc,omitempty"`
	Sort        string `msgpack:"sort,omitempty"`
	Reverse     *bool  `msgpack:"rev,omitempty"`
	Restrictive *bool  `msgpack:"restrict,omitempty"`
}

// ResultWord is one ranked match.
type ResultWord struct {
	Word string  `msgpack:"w"`
	Zipf float64 `msgpack:"z"`
	Gap  int     `msgpack:"g"`
	Rank uint16  `msgpack:"r"`
}

// QueryResponse answers a query op.
type QueryResponse struct {
	ID        string       `msgpack:"id"`
	Pattern   string       `msgpack:"p"`
	Results   []ResultWord `msgpack:"r"`
	Total     int          `msgpack:"t"`
	TimeTaken int64        `msgpack:"us"`
}

// HintCount is the match count of the pattern plus one letter.
type HintCount struct {
	Letter string `msgpack:"c"`
	Total  int    `msgpack:"t"`
}

// HintsResponse answers a hints op.
type HintsResponse struct {
	ID        string      `msgpack:"id"`
	Pattern   string      `msgpack:"p"`
	Hints     []HintCount `msgpack:"h"`
	TimeTaken int64       `msgpack:"us"`
}

// StatsResponse answers a stats op.
type StatsResponse struct {
	ID          string `msgpack:"id"`
	Words       int    `msgpack:"words"`
	Rejected    int    `msgpack:"rejected"`
	ZipfEntries int    `msgpack:"zipf_entries"`
	LoadMicros  int64  `msgpack:"load_us"`
	IndexMicros int64  `msgpack:"index_us"`
	Requests    int64  `msgpack:"requests"`
}

// BenchProcedure is the summary of one timed procedure.
type BenchProcedure struct {
	Name          string  `msgpack:"name"`
	MeanMicros    float64 `msgpack:"mean_us"`
	MedianMicros  float64 `msgpack:"median_us"`
	MeanMatches   float64 `msgpack:"mean_matches"`
	MedianMatches float64 `msgpack:"median_matches"`
}

// BenchResponse answers a bench op.
type BenchResponse struct {
	ID         string           `msgpack:"id"`
	Patterns   int              `msgpack:"patterns"`
	Best       string           `msgpack:"best"`
	Procedures []BenchProcedure `msgpack:"procedures"`
}

// QueryError holds basic error information for any failed request
type QueryError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
