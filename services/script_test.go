package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audiobot/models"
)

func testArticle(id uint, category, text, source string) models.Article {
	return models.Article{
		ID:       id,
		Text:     text,
		Source:   source,
		Category: &models.Category{Name: category},
	}
}

func TestAssembleScriptOrderAndLabels(t *testing.T) {
	articles := []models.Article{
		testArticle(3, "Technology", "Chip makers announce new fabs.", "example.com/a"),
		testArticle(1, "Business", "Markets closed higher today.", "example.com/b"),
		testArticle(7, "Science", "A new exoplanet was confirmed.", "example.com/c"),
	}

	doc := AssembleScript(articles)

	require.Len(t, doc.Segments, 5)
	assert.Equal(t, "intro", doc.Segments[0].Kind)
	assert.Equal(t, "outro", doc.Segments[4].Kind)
	assert.Equal(t, []uint{3, 1, 7}, doc.ArticleIDs)

	assert.Contains(t, doc.Script, "Here are the top 3 stories")
	for i, article := range articles {
		label := fmt.Sprintf("Story %d: %s", i+1, article.Category.Name)
		assert.Equal(t, 1, strings.Count(doc.Script, label))
	}
	// Eingabereihenfolge bleibt erhalten
	assert.Less(t,
		strings.Index(doc.Script, "Story 1:"),
		strings.Index(doc.Script, "Story 2:"))
	assert.Less(t,
		strings.Index(doc.Script, "Story 2:"),
		strings.Index(doc.Script, "Story 3:"))
	assert.True(t, strings.HasSuffix(doc.Script, "Thank you for listening!"))
}

func TestAssembleScriptTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("ä", 1500)
	doc := AssembleScript([]models.Article{testArticle(1, "World", long, "example.com")})

	assert.NotContains(t, doc.Script, long)
	assert.Contains(t, doc.Script, strings.Repeat("ä", 1000)+"...")
	assert.NotContains(t, doc.Script, strings.Repeat("ä", 1001))
}

func TestAssembleScriptShortContentNotTruncated(t *testing.T) {
	text := strings.Repeat("x", 1000)
	doc := AssembleScript([]models.Article{testArticle(1, "World", text, "example.com")})

	assert.Contains(t, doc.Script, text+"\n")
	assert.NotContains(t, doc.Script, text+"...")
}

func TestAssembleScriptPrefersSummary(t *testing.T) {
	article := testArticle(1, "World", "full body text", "example.com")
	article.Summary = "a short summary"

	doc := AssembleScript([]models.Article{article})

	assert.Contains(t, doc.Script, "a short summary")
	assert.NotContains(t, doc.Script, "full body text")
}

func TestAssembleScriptFallbacks(t *testing.T) {
	article := models.Article{ID: 1, Text: "no category, no source"}

	doc := AssembleScript([]models.Article{article})

	assert.Contains(t, doc.Script, "Story 1: General")
	assert.Contains(t, doc.Script, "Source: Unknown source")
}

func TestAssembleScriptEmptyList(t *testing.T) {
	doc := AssembleScript(nil)

	require.Len(t, doc.Segments, 2)
	assert.Contains(t, doc.Script, "top 0 stories")
	assert.True(t, strings.HasSuffix(doc.Script, "Thank you for listening!"))
	assert.Empty(t, doc.ArticleIDs)
}

func TestAssembleScriptDeterministic(t *testing.T) {
	articles := []models.Article{
		testArticle(1, "Technology", "Same input.", "example.com"),
		testArticle(2, "Business", "Same input again.", "example.com"),
	}

	first := AssembleScript(articles)
	second := AssembleScript(articles)

	assert.Equal(t, first.Script, second.Script)
	assert.Equal(t, first.ArticleIDs, second.ArticleIDs)
}

func TestAssembleScriptKeepsDuplicates(t *testing.T) {
	article := testArticle(9, "World", "Repeated story.", "example.com")
	doc := AssembleScript([]models.Article{article, article})

	assert.Equal(t, []uint{9, 9}, doc.ArticleIDs)
	assert.Equal(t, 2, strings.Count(doc.Script, "Repeated story."))
}
