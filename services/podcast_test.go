package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"audiobot/models"
)

type fakeSynthesizer struct {
	audio []byte
	err   error
	calls int
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, _ string, _ string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) UploadPodcast(_ context.Context, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type fakePodcastRepo struct {
	err     error
	created []*models.Podcast
}

func (f *fakePodcastRepo) Create(_ context.Context, podcast *models.Podcast) error {
	if f.err != nil {
		return f.err
	}
	podcast.ID = uint(len(f.created) + 1)
	f.created = append(f.created, podcast)
	return nil
}

type fakeSummarizer struct {
	summary string
	err     error
}

func (f *fakeSummarizer) CreateAudioSummary(_ context.Context, _, _ string, _ int) (string, error) {
	return f.summary, f.err
}

// seqEmbedder schlägt bei den angegebenen Aufruf-Indizes fehl.
type seqEmbedder struct {
	failAt map[int]bool
	calls  int
}

func (f *seqEmbedder) GenerateEmbedding(_ context.Context, _ string) ([]float32, error) {
	idx := f.calls
	f.calls++
	if f.failAt[idx] {
		return nil, ErrEmbeddingUnavailable
	}
	vector := make([]float32, models.EmbeddingDimensions)
	vector[0] = 1
	return vector, nil
}

func newTestPodcastService(t *testing.T, repo *fakeArticleRepo, synth Synthesizer, uploader AudioUploader, podcasts PodcastRepository, embedder Embedder) *PodcastService {
	t.Helper()
	logger := zap.NewNop()
	return NewPodcastService(
		NewRetriever(repo, embedder, logger),
		synth,
		&fakeSummarizer{summary: "a generated summary"},
		embedder,
		uploader,
		repo,
		podcasts,
		logger,
		t.TempDir(),
	)
}

func TestRunHappyPath(t *testing.T) {
	repo := &fakeArticleRepo{articles: []models.Article{
		{ID: 1, Text: "first"}, {ID: 2, Text: "second"},
	}}
	podcasts := &fakePodcastRepo{}
	s := newTestPodcastService(t, repo,
		&fakeSynthesizer{audio: []byte("mp3")},
		&fakeUploader{url: "https://bucket.s3.us-west-2.amazonaws.com/podcasts/podcast_x.mp3"},
		podcasts, &fakeEmbedder{})

	userID := uint(42)
	podcast, err := s.Run(context.Background(), models.ByIDs{IDs: []uint{1, 2}}, "", &userID)
	require.NoError(t, err)

	require.Len(t, podcasts.created, 1)
	assert.Equal(t, podcast, podcasts.created[0])
	require.NotNil(t, podcast.UserID)
	assert.Equal(t, uint(42), *podcast.UserID)
	assert.Contains(t, podcast.Script, "Story 1:")
	assert.Contains(t, podcast.Script, "Story 2:")
	assert.Contains(t, podcast.S3Link, "podcasts/podcast_")
}

func TestRunNoCandidates(t *testing.T) {
	podcasts := &fakePodcastRepo{}
	s := newTestPodcastService(t, &fakeArticleRepo{},
		&fakeSynthesizer{audio: []byte("mp3")},
		&fakeUploader{url: "https://example.com/a.mp3"},
		podcasts, &fakeEmbedder{vector: []float32{0.1}})

	_, err := s.Run(context.Background(), models.ByQueryText{Text: "nothing"}, "", nil)
	assert.ErrorIs(t, err, ErrNoCandidates)
	assert.Empty(t, podcasts.created)
}

func TestRunAbortsOnSynthesisFailure(t *testing.T) {
	repo := &fakeArticleRepo{articles: []models.Article{{ID: 1, Text: "first"}}}
	podcasts := &fakePodcastRepo{}
	s := newTestPodcastService(t, repo,
		&fakeSynthesizer{err: ErrSynthesis},
		&fakeUploader{url: "https://example.com/a.mp3"},
		podcasts, &fakeEmbedder{})

	_, err := s.Run(context.Background(), models.ByIDs{IDs: []uint{1}}, "", nil)
	assert.ErrorIs(t, err, ErrSynthesis)
	// kein partieller Provenance-Datensatz
	assert.Empty(t, podcasts.created)
}

func TestRunAbortsOnUploadFailure(t *testing.T) {
	repo := &fakeArticleRepo{articles: []models.Article{{ID: 1, Text: "first"}}}
	podcasts := &fakePodcastRepo{}
	s := newTestPodcastService(t, repo,
		&fakeSynthesizer{audio: []byte("mp3")},
		&fakeUploader{err: errors.New("s3 down")},
		podcasts, &fakeEmbedder{})

	_, err := s.Run(context.Background(), models.ByIDs{IDs: []uint{1}}, "", nil)
	assert.ErrorIs(t, err, ErrStorage)
	assert.Empty(t, podcasts.created)
}

func TestRunBatchIsolatesItemFailures(t *testing.T) {
	repo := &fakeArticleRepo{}
	embedder := &seqEmbedder{failAt: map[int]bool{1: true}}
	s := newTestPodcastService(t, repo,
		&fakeSynthesizer{audio: []byte("mp3")},
		&fakeUploader{}, &fakePodcastRepo{}, embedder)

	seeds := []SeedItem{
		{URL: "https://example.com/a", Title: "A", Text: "text a"},
		{URL: "https://example.com/b", Title: "B", Text: "text b"},
		{URL: "https://example.com/c", Title: "C", Text: "text c"},
	}
	result, err := s.RunBatch(context.Background(), seeds, BatchOptions{})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.ArticlesFound)
	assert.Equal(t, 2, result.ArticlesProcessed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "item 1")
	assert.Contains(t, result.Errors[0], "https://example.com/b")
	assert.Len(t, repo.created, 2)
}

func TestRunBatchSkipsEmptyText(t *testing.T) {
	repo := &fakeArticleRepo{}
	s := newTestPodcastService(t, repo,
		&fakeSynthesizer{audio: []byte("mp3")},
		&fakeUploader{}, &fakePodcastRepo{}, &seqEmbedder{})

	seeds := []SeedItem{
		{URL: "https://example.com/a", Title: "A", Text: "   "},
		{URL: "https://example.com/b", Title: "B", Text: "real text"},
	}
	result, err := s.RunBatch(context.Background(), seeds, BatchOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ArticlesProcessed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "no text content")
}

func TestRunBatchAllFailedIsNotAnError(t *testing.T) {
	repo := &fakeArticleRepo{}
	s := newTestPodcastService(t, repo,
		&fakeSynthesizer{audio: []byte("mp3")},
		&fakeUploader{}, &fakePodcastRepo{},
		&seqEmbedder{failAt: map[int]bool{0: true, 1: true}})

	seeds := []SeedItem{
		{URL: "https://example.com/a", Title: "A", Text: "text a"},
		{URL: "https://example.com/b", Title: "B", Text: "text b"},
	}
	result, err := s.RunBatch(context.Background(), seeds, BatchOptions{})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.ArticlesProcessed)
	assert.Len(t, result.Errors, 2)
	assert.Empty(t, repo.created)
}

func TestRunBatchCommitIsAtomic(t *testing.T) {
	repo := &fakeArticleRepo{batchErr: errors.New("constraint violation")}
	s := newTestPodcastService(t, repo,
		&fakeSynthesizer{audio: []byte("mp3")},
		&fakeUploader{}, &fakePodcastRepo{}, &seqEmbedder{})

	seeds := []SeedItem{
		{URL: "https://example.com/a", Title: "A", Text: "text a"},
		{URL: "https://example.com/b", Title: "B", Text: "text b"},
	}
	result, err := s.RunBatch(context.Background(), seeds, BatchOptions{})
	assert.ErrorIs(t, err, ErrStorage)
	assert.Nil(t, result)
	assert.Empty(t, repo.created)
}

func TestRunBatchUsesTitleWithoutSummarizer(t *testing.T) {
	repo := &fakeArticleRepo{}
	s := newTestPodcastService(t, repo,
		&fakeSynthesizer{audio: []byte("mp3")},
		&fakeUploader{}, &fakePodcastRepo{}, &seqEmbedder{})

	seeds := []SeedItem{{URL: "https://example.com/a", Title: "The Title", Text: "body"}}
	result, err := s.RunBatch(context.Background(), seeds, BatchOptions{TargetMinutes: 0})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "The Title", repo.created[0].Summary)
	assert.Equal(t, 1, result.ArticlesProcessed)
}

func TestRunBatchGeneratesSummaries(t *testing.T) {
	repo := &fakeArticleRepo{}
	s := newTestPodcastService(t, repo,
		&fakeSynthesizer{audio: []byte("mp3")},
		&fakeUploader{}, &fakePodcastRepo{}, &seqEmbedder{})

	seeds := []SeedItem{{URL: "https://example.com/a", Title: "The Title", Text: "body"}}
	_, err := s.RunBatch(context.Background(), seeds, BatchOptions{TargetMinutes: 2})
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	assert.Equal(t, "a generated summary", repo.created[0].Summary)
}

func TestRunBatchWritesAudioFiles(t *testing.T) {
	repo := &fakeArticleRepo{}
	synth := &fakeSynthesizer{audio: []byte("mp3-bytes")}
	s := newTestPodcastService(t, repo, synth, &fakeUploader{}, &fakePodcastRepo{}, &seqEmbedder{})

	seeds := []SeedItem{{URL: "https://example.com/a", Title: "A", Text: "text a"}}
	result, err := s.RunBatch(context.Background(), seeds, BatchOptions{GenerateAudio: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.ArticlesWithAudio)
	require.Len(t, result.Articles, 1)
	require.NotEmpty(t, result.Articles[0].AudioFilename)

	data, err := os.ReadFile(filepath.Join(s.AudioOutputDir, result.Articles[0].AudioFilename))
	require.NoError(t, err)
	assert.Equal(t, []byte("mp3-bytes"), data)
}

func TestGenerateAudioFile(t *testing.T) {
	s := newTestPodcastService(t, &fakeArticleRepo{},
		&fakeSynthesizer{audio: []byte("spoken")},
		&fakeUploader{}, &fakePodcastRepo{}, &fakeEmbedder{})

	filename, err := s.GenerateAudioFile(context.Background(), "read this aloud", "custom.mp3", "")
	require.NoError(t, err)
	assert.Equal(t, "custom.mp3", filename)

	data, err := os.ReadFile(filepath.Join(s.AudioOutputDir, filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("spoken"), data)
}
