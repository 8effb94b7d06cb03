/*
Package server implements msgpack IPC for sentence completion services.

The server provides a minimal query surface over stdin/stdout: clients send
structured completion requests and receive ranked results. Messages use
binary msgpack encoding; every frame carries an ID the response echoes back.

A completion request looks like:

	{"id": "req_001", "q": "hello wo", "k": 5}

and the response carries the ranked completions with timing info:

	{"id": "req_001", "r": [{"score": 16, "sentence": "...", ...}], "c": 2, "t": 145}

Presentation is the client's job; the server only runs the engine and frames
results. Build/load lifecycle is not exposed over IPC: the engine is built
or loaded before the server starts and stays read-only for its lifetime.
*/
package server

import "github.com/sentserve/sentserve/pkg/suggest"

// CompletionRequest - minimal completion request
type CompletionRequest struct {
	ID    string `msgpack:"id"`
	Query string `msgpack:"q"`
	Limit int    `msgpack:"k,omitempty"`
}

// CompletionResponse - ranked completion response
type CompletionResponse struct {
	ID        string           `msgpack:"id"`
	Results   []suggest.Result `msgpack:"r"`
	Count     int              `msgpack:"c"`
	TimeTaken int64            `msgpack:"t"`
}

// CompletionError holds basic error information for completion requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// StatusResponse signals readiness and health check results.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}
