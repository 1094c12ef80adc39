package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/spektr-org/growthkit/engine"
)

const sampleBooklet = `{
  "children": [
    {
      "id": "child_lq2x_9f",
      "nome": "Luca",
      "cognome": "Rossi",
      "dataNascita": "2023-01-01",
      "codiceFiscale": "RSSLCU23A01H501X",
      "visite": [
        {"id": "visit_1", "data": "2023-02-01", "tipo": "Bilancio", "peso": "4,5", "altezza": "54", "circonferenzaCranica": "37", "note": ""},
        {"id": "visit_2", "data": "2023-04-01", "peso": 6.0, "altezza": null}
      ],
      "vaccinazioni": [{"data": "2023-03-01", "nome": "Esavalente"}]
    },
    {
      "nome": "Giulia",
      "dataNascita": "2021-06-15",
      "visite": []
    }
  ],
  "notesVersion": 1
}`

func TestDecode(t *testing.T) {
	b, err := DecodeBytes([]byte(sampleBooklet))
	if err != nil {
		t.Fatal(err)
	}
	if b.NotesVersion != 1 || len(b.Children) != 2 {
		t.Fatalf("booklet = %+v", b)
	}

	luca := b.Children[0]
	if luca.ID != "child_lq2x_9f" || luca.Name != "Luca Rossi" || luca.BirthDate != "2023-01-01" {
		t.Errorf("child = %+v", luca)
	}
	want := []engine.Visit{
		{Date: "2023-02-01", Kind: "Bilancio", Weight: "4,5", Height: "54", HeadCircumference: "37"},
		{Date: "2023-04-01", Weight: "6.0"},
	}
	if len(luca.Visits) != 2 || luca.Visits[0] != want[0] || luca.Visits[1] != want[1] {
		t.Errorf("visits = %+v", luca.Visits)
	}

	series := engine.BuildSeries(luca, engine.Weight)
	if len(series.Measured) != 2 || series.Measured[0].Y != 4.5 {
		t.Errorf("decoded visits do not chart: %v", series.Measured)
	}
}

func TestDecodeAssignsStableIDs(t *testing.T) {
	a, err := DecodeBytes([]byte(sampleBooklet))
	if err != nil {
		t.Fatal(err)
	}
	b, err := DecodeBytes([]byte(sampleBooklet))
	if err != nil {
		t.Fatal(err)
	}
	id := a.Children[1].ID
	if id == "" || id != b.Children[1].ID {
		t.Errorf("generated ids differ: %q vs %q", id, b.Children[1].ID)
	}
	if id != ChildID("Giulia", "2021-06-15") {
		t.Errorf("id = %q, want ChildID of name and birth date", id)
	}
	if ChildID("Giulia", "2021-06-16") == id {
		t.Errorf("different birth dates should give different ids")
	}
}

func TestDecodeRejectsNonBooklets(t *testing.T) {
	if _, err := DecodeBytes([]byte(`{"notesVersion": 1}`)); !errors.Is(err, ErrNotBooklet) {
		t.Errorf("error = %v, want ErrNotBooklet", err)
	}
	if _, err := DecodeBytes([]byte(`[1,2`)); err == nil {
		t.Errorf("malformed JSON should fail")
	}
	if _, err := DecodeBytes([]byte(`{"children":[{"visite":[{"peso": true}]}]}`)); err == nil {
		t.Errorf("boolean measurement should fail")
	}
}

func TestFind(t *testing.T) {
	b, err := DecodeBytes([]byte(sampleBooklet))
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		ref  string
		want string
	}{
		{"", "Luca Rossi"},
		{"child_lq2x_9f", "Luca Rossi"},
		{"1", "Giulia"},
		{b.Children[1].ID, "Giulia"},
	}
	for _, tc := range cases {
		c, err := b.Find(tc.ref)
		if err != nil {
			t.Errorf("Find(%q): %v", tc.ref, err)
			continue
		}
		if c.Name != tc.want {
			t.Errorf("Find(%q) = %q, want %q", tc.ref, c.Name, tc.want)
		}
	}
	for _, ref := range []string{"2", "-1", "nobody"} {
		if _, err := b.Find(ref); !errors.Is(err, ErrChildNotFound) {
			t.Errorf("Find(%q) error = %v", ref, err)
		}
	}
}

func TestValidate(t *testing.T) {
	b := &Booklet{Children: []engine.Child{
		{ID: "a", BirthDate: "2023-01-01", Visits: []engine.Visit{
			{Date: "2023-02-01"},
			{Date: ""},
			{Date: "2022-12-01"},
			{Date: "2023-02-31"},
		}},
		{ID: "a", BirthDate: ""},
		{ID: "c", BirthDate: "01/01/2020", Visits: []engine.Visit{{Date: "2020-02-01"}}},
	}}
	issues := b.Validate()

	want := []string{
		"child 0, visit 1: missing date",
		"child 0, visit 2: visit before birth",
		"child 0, visit 3: invalid date",
		`child 1: duplicate id "a" (also child 0)`,
		"child 1: missing birth date",
		`child 2: invalid birth date "01/01/2020"`,
	}
	if len(issues) != len(want) {
		t.Fatalf("issues = %v", issues)
	}
	for i, issue := range issues {
		if issue.String() != want[i] {
			t.Errorf("issue %d = %q, want %q", i, issue, want[i])
		}
	}
}

func TestValidateCleanBooklet(t *testing.T) {
	b, err := Decode(strings.NewReader(sampleBooklet))
	if err != nil {
		t.Fatal(err)
	}
	if issues := b.Validate(); len(issues) != 0 {
		t.Errorf("issues = %v", issues)
	}
}
