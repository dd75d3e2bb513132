package match

import "testing"

func TestMetadataFromMap_AllFields(t *testing.T) {
	md := MetadataFromMap(map[string]any{
		"platform":  "slack",
		"title":     "Standup",
		"content":   "notes",
		"timestamp": "2 hours ago",
		"link":      "https://example.slack.com/x",
		"channel":   "eng",
	})

	check := func(name string, got *string, want string) {
		t.Helper()
		if got == nil {
			t.Fatalf("%s is nil", name)
		}
		if *got != want {
			t.Errorf("%s = %q, want %q", name, *got, want)
		}
	}
	check("Platform", md.Platform, "slack")
	check("Title", md.Title, "Standup")
	check("Content", md.Content, "notes")
	check("Timestamp", md.Timestamp, "2 hours ago")
	check("Link", md.Link, "https://example.slack.com/x")

	if md.Extra["channel"] != "eng" {
		t.Errorf("Extra = %v", md.Extra)
	}
}

func TestMetadataFromMap_Aliases(t *testing.T) {
	md := MetadataFromMap(map[string]any{
		"source":    "drive",
		"file_name": "deck.pdf",
		"text":      "body",
		"date":      float64(1700000000),
		"url":       "https://drive/x",
	})
	if md.Platform == nil || *md.Platform != "drive" {
		t.Errorf("Platform = %v", md.Platform)
	}
	if md.Title == nil || *md.Title != "deck.pdf" {
		t.Errorf("Title = %v", md.Title)
	}
	if md.Timestamp == nil || *md.Timestamp != "1700000000" {
		t.Errorf("Timestamp = %v", md.Timestamp)
	}
	if md.Extra != nil {
		t.Errorf("expected no extra keys, got %v", md.Extra)
	}
}

func TestMetadataFromMap_PrimaryKeyWins(t *testing.T) {
	md := MetadataFromMap(map[string]any{"platform": "jira", "source": "slack"})
	if *md.Platform != "jira" {
		t.Errorf("Platform = %q, want jira", *md.Platform)
	}
}

func TestMetadataFromMap_AbsentValues(t *testing.T) {
	md := MetadataFromMap(map[string]any{
		"title":   "",
		"content": nil,
		"link":    map[string]any{"href": "x"},
	})
	if md.Title != nil || md.Content != nil || md.Link != nil {
		t.Errorf("expected absent fields, got %+v", md)
	}

	empty := MetadataFromMap(nil)
	if empty.Platform != nil || empty.Extra != nil {
		t.Errorf("expected zero metadata, got %+v", empty)
	}
}

func TestNew(t *testing.T) {
	m := New("vec-1", 0.91, Metadata{})
	if m.ID() != "vec-1" {
		t.Errorf("ID() = %q", m.ID())
	}
	if m.Score() != 0.91 {
		t.Errorf("Score() = %f", m.Score())
	}
}
