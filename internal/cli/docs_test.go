package cli

import "testing"

func TestDocsTopics(t *testing.T) {
	topics, err := docsTopics()
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) == 0 {
		t.Fatal("no embedded topics")
	}

	found := false
	for _, topic := range topics {
		if topic.ID == "moving-files" {
			found = true
			if topic.Title != "Moving files" {
				t.Errorf("title = %q", topic.Title)
			}
		}
		if topic.Title == "" {
			t.Errorf("topic %s has no title", topic.ID)
		}
	}
	if !found {
		t.Errorf("moving-files topic missing: %+v", topics)
	}
}

func TestDocsTitleFallback(t *testing.T) {
	if got := docsTitle("no heading here\n", "fallback"); got != "fallback" {
		t.Errorf("docsTitle = %q", got)
	}
	if got := docsTitle("# A Title\n\nbody\n", "x"); got != "A Title" {
		t.Errorf("docsTitle = %q", got)
	}
}
