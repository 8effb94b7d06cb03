// Package snapshot serializes a built engine state, corpus sentences plus
// the n-gram posting lists, into a versioned msgpack blob so a later process
// can reconstruct the engine without re-ingesting or re-normalizing raw
// text. The format is data-only: derived structures like the posting trie
// are rebuilt after load, never stored.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/sentserve/sentserve/pkg/corpus"
)

// Version is the current snapshot format version. Load refuses anything
// else: misinterpreting bytes silently is worse than failing.
const Version uint32 = 1

// ConsistencyError reports a snapshot that cannot be trusted: wrong format
// version or a checksum that does not match the payload.
type ConsistencyError struct {
	Reason string
}

func (e *ConsistencyError) Error() string {
	return "snapshot inconsistency: " + e.Reason
}

// State is the data-only engine state carried by a snapshot.
type State struct {
	Gram      int                 `msgpack:"gram"`
	Indexed   bool                `msgpack:"indexed"`
	Sentences []*corpus.Sentence  `msgpack:"sentences"`
	Postings  map[string][]uint32 `msgpack:"postings"`
}

// envelope wraps the encoded State with a version tag and an xxhash of the
// body so Decode can reject truncated or foreign bytes.
type envelope struct {
	Version uint32 `msgpack:"v"`
	Sum     uint64 `msgpack:"sum"`
	Body    []byte `msgpack:"body"`
}

// Encode serializes st into a self-validating snapshot blob.
func Encode(st *State) ([]byte, error) {
	// Sorted postings make encoding deterministic for identical state.
	for _, ids := range st.Postings {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}
	body, err := msgpack.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot body: %w", err)
	}
	blob, err := msgpack.Marshal(&envelope{
		Version: Version,
		Sum:     xxhash.Sum64(body),
		Body:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot envelope: %w", err)
	}
	return blob, nil
}

// Decode validates the envelope and returns the carried State. A version or
// checksum mismatch yields a *ConsistencyError; there is no partial or
// guessed reconstruction.
func Decode(blob []byte) (*State, error) {
	var env envelope
	if err := msgpack.Unmarshal(blob, &env); err != nil {
		return nil, &ConsistencyError{Reason: fmt.Sprintf("undecodable envelope: %v", err)}
	}
	if env.Version != Version {
		return nil, &ConsistencyError{
			Reason: fmt.Sprintf("format version %d, want %d", env.Version, Version),
		}
	}
	if sum := xxhash.Sum64(env.Body); sum != env.Sum {
		return nil, &ConsistencyError{
			Reason: fmt.Sprintf("checksum %x, want %x", sum, env.Sum),
		}
	}
	st := &State{}
	if err := msgpack.Unmarshal(env.Body, st); err != nil {
		return nil, &ConsistencyError{Reason: fmt.Sprintf("undecodable body: %v", err)}
	}
	return st, nil
}

// WriteFile writes an encoded snapshot blob to path atomically: the blob
// lands in a temp file first and is renamed over the target, so readers
// never observe a half-written snapshot.
func WriteFile(blob []byte, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("commit snapshot: %w", err)
	}
	log.Debugf("snapshot saved: %s (%d bytes)", path, len(blob))
	return nil
}

// ReadFile reads a snapshot blob from disk. Validation happens in Decode.
func ReadFile(path string) ([]byte, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return blob, nil
}
