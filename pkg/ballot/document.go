// Package ballot turns a survey document into the numeric vote matrix the
// analyzer and the plot consume.
//
// A document carries two fields: an ordered list of statements and a mapping
// from participant id to that participant's vote tokens, one per statement.
// Both orders are significant: statement order defines matrix column order and
// participant order defines matrix row order, so decoding preserves document
// order exactly instead of going through Go maps.
package ballot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/lheinlen/opinionmap/pkg/errors"
)

// Participant is one respondent's id and raw vote tokens, in document order.
type Participant struct {
	ID    string
	Votes []string
}

// Document is the decoded survey input.
type Document struct {
	Statements   []string
	Participants []Participant
}

// DecodeFile reads and decodes a survey document, dispatching on the file
// extension. YAML (.yaml, .yml) and TOML (.toml) are supported.
func DecodeFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".toml":
		return DecodeTOML(data)
	default:
		return nil, errors.New(errors.ErrCodeUnsupportedFormat,
			"unsupported input format %q (use .yaml, .yml, or .toml)", ext)
	}
}

// DecodeYAML decodes a YAML survey document. The votes mapping is walked as a
// yaml.Node so participant order is taken from the document, not from a map.
func DecodeYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "yaml document is empty")
	}

	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, errors.New(errors.ErrCodeInvalidInput, "yaml top level must be a mapping")
	}

	doc := &Document{}
	var sawStatements, sawVotes bool

	// Mapping nodes store alternating key/value children.
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		switch key.Value {
		case "statements":
			if err := value.Decode(&doc.Statements); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode statements")
			}
			sawStatements = true
		case "votes":
			if value.Kind != yaml.MappingNode {
				return nil, errors.New(errors.ErrCodeInvalidInput, "votes must be a mapping of participant to vote list")
			}
			for j := 0; j+1 < len(value.Content); j += 2 {
				p := Participant{ID: value.Content[j].Value}
				if err := value.Content[j+1].Decode(&p.Votes); err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode votes for %q", p.ID)
				}
				doc.Participants = append(doc.Participants, p)
			}
			sawVotes = true
		}
	}

	return doc, requireFields(sawStatements, sawVotes)
}

// DecodeTOML decodes a TOML survey document. BurntSushi's MetaData reports
// keys in definition order, which supplies the participant order that the
// decoded map loses.
func DecodeTOML(data []byte) (*Document, error) {
	var raw struct {
		Statements []string            `toml:"statements"`
		Votes      map[string][]string `toml:"votes"`
	}
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode toml")
	}

	doc := &Document{Statements: raw.Statements}
	for _, key := range md.Keys() {
		if len(key) == 2 && key[0] == "votes" {
			doc.Participants = append(doc.Participants, Participant{
				ID:    key[1],
				Votes: raw.Votes[key[1]],
			})
		}
	}

	return doc, requireFields(md.IsDefined("statements"), md.IsDefined("votes"))
}

// requireFields enforces the document contract: both top-level fields must be
// present. Absence of either is a fatal parse error, not a recoverable one.
func requireFields(sawStatements, sawVotes bool) error {
	var missing []string
	if !sawStatements {
		missing = append(missing, "statements")
	}
	if !sawVotes {
		missing = append(missing, "votes")
	}
	if len(missing) > 0 {
		return errors.New(errors.ErrCodeMissingField,
			"document is missing required field(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

// String summarizes the document for logging.
func (d *Document) String() string {
	return fmt.Sprintf("document{statements: %d, participants: %d}", len(d.Statements), len(d.Participants))
}
