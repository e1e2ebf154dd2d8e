package services

import (
	"fmt"
	"strings"

	"audiobot/models"
)

// maxStoryContentLength begrenzt den vorgelesenen Inhalt pro Artikel.
const maxStoryContentLength = 1000

// truncationMarker wird an gekürzten Inhalt angehängt.
const truncationMarker = "..."

// ScriptSegment ist ein Abschnitt des Narrationsskripts.
type ScriptSegment struct {
	Kind string // "intro", "story" oder "outro"
	Text string
}

// ScriptDocument ist das zusammengesetzte Narrationsskript eines Laufs.
// Ephemer: nach der Synthese werden nur Script und ArticleIDs für den
// Provenance-Datensatz weiterverwendet.
type ScriptDocument struct {
	Segments   []ScriptSegment
	Script     string
	ArticleIDs []uint
}

// AssembleScript baut deterministisch das Podcast-Skript aus einer geordneten
// Artikelliste: Intro, ein Segment pro Artikel in Eingabereihenfolge, Outro.
// Keine Umsortierung, keine De-Duplizierung; eine leere Liste ergibt ein
// wohlgeformtes Skript mit "0 stories".
func AssembleScript(articles []models.Article) *ScriptDocument {
	doc := &ScriptDocument{
		Segments:   make([]ScriptSegment, 0, len(articles)+2),
		ArticleIDs: make([]uint, 0, len(articles)),
	}

	intro := fmt.Sprintf(
		"Welcome to your personalized news podcast. Here are the top %d stories for you today.\n\n",
		len(articles))
	doc.Segments = append(doc.Segments, ScriptSegment{Kind: "intro", Text: intro})

	for idx := range articles {
		article := &articles[idx]

		content := article.NarrationContent()
		if runes := []rune(content); len(runes) > maxStoryContentLength {
			content = string(runes[:maxStoryContentLength]) + truncationMarker
		}

		source := article.Source
		if source == "" {
			source = "Unknown source"
		}

		segment := fmt.Sprintf("Story %d: %s\n%s\nSource: %s\n\n",
			idx+1, article.CategoryName(), content, source)
		doc.Segments = append(doc.Segments, ScriptSegment{Kind: "story", Text: segment})
		doc.ArticleIDs = append(doc.ArticleIDs, article.ID)
	}

	doc.Segments = append(doc.Segments, ScriptSegment{
		Kind: "outro",
		Text: "That's all for today's news. Thank you for listening!",
	})

	var sb strings.Builder
	for _, seg := range doc.Segments {
		sb.WriteString(seg.Text)
	}
	doc.Script = sb.String()

	return doc
}
