// Package record decodes health booklet snapshots into engine children.
//
// A booklet is the JSON document the browser booklet keeps in local storage
// and exports as a backup:
//
//	{"children": [{"id": "...", "nome": "...", "dataNascita": "2023-01-01",
//	  "visite": [{"data": "2023-02-01", "peso": "4,5", "altezza": "54"}]}],
//	 "notesVersion": 1}
//
// Field names are the booklet's own (Italian). Everything outside the growth
// data, such as vaccinations and notes, is ignored.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/spektr-org/growthkit/engine"
)

// ErrNotBooklet is returned for JSON documents without a children array.
var ErrNotBooklet = errors.New("record: not a booklet (missing 'children')")

// ErrChildNotFound is returned by Find when no child matches.
var ErrChildNotFound = errors.New("record: child not found")

// childNamespace seeds the ids of children saved without one.
var childNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://growthkit.spektr.org/child"))

// Booklet is a decoded snapshot.
type Booklet struct {
	Children     []engine.Child
	NotesVersion int
}

type bookletJSON struct {
	Children     *[]childJSON `json:"children"`
	NotesVersion int          `json:"notesVersion"`
}

type childJSON struct {
	ID          text        `json:"id"`
	Nome        text        `json:"nome"`
	Cognome     text        `json:"cognome"`
	DataNascita text        `json:"dataNascita"`
	Visite      []visitJSON `json:"visite"`
}

type visitJSON struct {
	Data                 text `json:"data"`
	Tipo                 text `json:"tipo"`
	Peso                 text `json:"peso"`
	Altezza              text `json:"altezza"`
	CirconferenzaCranica text `json:"circonferenzaCranica"`
	Note                 text `json:"note"`
}

// text accepts a JSON string, number, or null. Older exports and hand-edited
// backups store measurements as numbers.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = text(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("record: expected string or number, got %s", b)
		}
		*t = text(n.String())
	}
	return nil
}

// Decode reads a booklet snapshot.
func Decode(r io.Reader) (*Booklet, error) {
	var raw bookletJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("record: decode booklet: %w", err)
	}
	if raw.Children == nil {
		return nil, ErrNotBooklet
	}

	b := &Booklet{
		Children:     make([]engine.Child, 0, len(*raw.Children)),
		NotesVersion: raw.NotesVersion,
	}
	for _, c := range *raw.Children {
		b.Children = append(b.Children, c.toChild())
	}
	return b, nil
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte) (*Booklet, error) {
	return Decode(bytes.NewReader(data))
}

func (c childJSON) toChild() engine.Child {
	name := strings.TrimSpace(string(c.Nome) + " " + string(c.Cognome))
	child := engine.Child{
		ID:        strings.TrimSpace(string(c.ID)),
		Name:      name,
		BirthDate: strings.TrimSpace(string(c.DataNascita)),
		Visits:    make([]engine.Visit, 0, len(c.Visite)),
	}
	if child.ID == "" {
		child.ID = ChildID(child.Name, child.BirthDate)
	}
	for _, v := range c.Visite {
		child.Visits = append(child.Visits, engine.Visit{
			Date:              string(v.Data),
			Kind:              string(v.Tipo),
			Weight:            string(v.Peso),
			Height:            string(v.Altezza),
			HeadCircumference: string(v.CirconferenzaCranica),
			Notes:             string(v.Note),
		})
	}
	return child
}

// ChildID derives a stable id from a child's name and birth date, so the
// same booklet decodes to the same ids every time.
func ChildID(name, birthDate string) string {
	key := strings.ToLower(strings.TrimSpace(name)) + "|" + strings.TrimSpace(birthDate)
	return uuid.NewSHA1(childNamespace, []byte(key)).String()
}

// Find returns the child with the given id, or failing that the child at the
// given 0-based index. An empty ref selects the first child.
func (b *Booklet) Find(ref string) (engine.Child, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		ref = "0"
	}
	for _, c := range b.Children {
		if c.ID == ref {
			return c, nil
		}
	}
	if i, err := strconv.Atoi(ref); err == nil && i >= 0 && i < len(b.Children) {
		return b.Children[i], nil
	}
	return engine.Child{}, fmt.Errorf("%w: %q", ErrChildNotFound, ref)
}
