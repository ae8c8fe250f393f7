// Package selection carries recipe/deployment state between the independently
// invoked selection stages (recipe list, deployment list, input fields) as an
// opaque string token, and derives each stage's output from it.
package selection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"promptstudio-workers/internal/models"
)

// TokenVersion is written into every encoded token. Tokens carrying another
// version are treated as malformed.
const TokenVersion = 1

// Entry describes a single deployment inside a recipe group.
type Entry struct {
	ID        string         `json:"id"`
	CreatedAt string         `json:"created_at"`
	Schemas   models.Schemas `json:"schemas"`
}

// Group is every deployment of one recipe, in the order they were listed by
// the API.
type Group struct {
	Deployments []Entry `json:"deployments"`
}

// EmptyGroup is what every failed or empty decode returns.
func EmptyGroup() Group {
	return Group{Deployments: []Entry{}}
}

// Len returns the number of deployments in the group.
func (g Group) Len() int {
	return len(g.Deployments)
}

// Index returns the position of the first deployment with the given id, or -1.
func (g Group) Index(deploymentID string) int {
	for i, d := range g.Deployments {
		if d.ID == deploymentID {
			return i
		}
	}
	return -1
}

type token struct {
	Version     int     `json:"v"`
	Deployments []Entry `json:"deployments"`
}

// legacyToken is the three-array layout written by earlier releases of the
// workflow node. It is still accepted on decode.
type legacyToken struct {
	Deployments []string          `json:"deployments"`
	Schemas     []json.RawMessage `json:"schemas"`
	CreatedAt   []string          `json:"created_at"`
}

// Status tells why a decode produced the group it did.
type Status int

const (
	// StatusEmpty means there was no value to decode (nothing selected yet).
	StatusEmpty Status = iota
	// StatusMalformed means the value was not produced by Encode.
	StatusMalformed
	// StatusOK means the value decoded cleanly.
	StatusOK
)

func (s Status) String() string {
	switch s {
	case StatusEmpty:
		return "empty"
	case StatusMalformed:
		return "malformed"
	case StatusOK:
		return "ok"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome of DecodeResult. Group is always usable; Err is only
// set for StatusMalformed.
type Result struct {
	Group  Group
	Status Status
	Err    error
}

// Encode serializes a group into a single-line string token. HTML characters
// are written unescaped so schema text survives byte for byte. Strings and
// schemas must be valid UTF-8; JSON cannot carry anything else losslessly.
func Encode(g Group) (string, error) {
	deployments := g.Deployments
	if deployments == nil {
		deployments = []Entry{}
	}
	for i, d := range deployments {
		if err := checkUTF8(d); err != nil {
			return "", fmt.Errorf("encode recipe group: deployment %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(token{Version: TokenVersion, Deployments: deployments}); err != nil {
		return "", fmt.Errorf("encode recipe group: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func checkUTF8(d Entry) error {
	switch {
	case !utf8.ValidString(d.ID):
		return fmt.Errorf("id is not valid UTF-8")
	case !utf8.ValidString(d.CreatedAt):
		return fmt.Errorf("created_at is not valid UTF-8")
	case !utf8.Valid(d.Schemas.RequestSchema):
		return fmt.Errorf("request schema is not valid UTF-8")
	case !utf8.Valid(d.Schemas.ResponseSchema):
		return fmt.Errorf("response schema is not valid UTF-8")
	}
	return nil
}

// Decode is the inverse of Encode. Empty or foreign input yields EmptyGroup;
// it never fails.
func Decode(value string) Group {
	return DecodeResult(value).Group
}

// DecodeResult decodes like Decode and also reports whether the input was
// empty, malformed or valid.
func DecodeResult(value string) Result {
	raw := bytes.TrimSpace([]byte(value))
	if len(raw) == 0 {
		return Result{Group: EmptyGroup(), Status: StatusEmpty}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return malformed(fmt.Errorf("token is not a JSON object: %w", err))
	}

	if _, ok := fields["v"]; !ok {
		return decodeLegacy(raw)
	}

	var t token
	if err := json.Unmarshal(raw, &t); err != nil {
		return malformed(fmt.Errorf("decode token: %w", err))
	}
	if t.Version != TokenVersion {
		return malformed(fmt.Errorf("unsupported token version %d", t.Version))
	}
	if t.Deployments == nil {
		t.Deployments = []Entry{}
	}
	return Result{Group: Group{Deployments: t.Deployments}, Status: StatusOK}
}

func decodeLegacy(raw []byte) Result {
	var lt legacyToken
	if err := json.Unmarshal(raw, &lt); err != nil {
		return malformed(fmt.Errorf("decode legacy token: %w", err))
	}
	if lt.Deployments == nil {
		return malformed(fmt.Errorf("legacy token has no deployments"))
	}
	if len(lt.Schemas) != len(lt.Deployments) || len(lt.CreatedAt) != len(lt.Deployments) {
		return malformed(fmt.Errorf("legacy token arrays differ in length: deployments=%d schemas=%d created_at=%d",
			len(lt.Deployments), len(lt.Schemas), len(lt.CreatedAt)))
	}

	g := Group{Deployments: make([]Entry, 0, len(lt.Deployments))}
	for i, id := range lt.Deployments {
		var schemas models.Schemas
		if len(lt.Schemas[i]) > 0 && !bytes.Equal(lt.Schemas[i], []byte("null")) {
			if err := json.Unmarshal(lt.Schemas[i], &schemas); err != nil {
				return malformed(fmt.Errorf("legacy schema %d: %w", i, err))
			}
		}
		g.Deployments = append(g.Deployments, Entry{ID: id, CreatedAt: lt.CreatedAt[i], Schemas: schemas})
	}
	return Result{Group: g, Status: StatusOK}
}

func malformed(err error) Result {
	return Result{Group: EmptyGroup(), Status: StatusMalformed, Err: err}
}
