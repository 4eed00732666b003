// internal/workers/documentprocessor/handler_test.go
package documentprocessor

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	pipelineerrors "cv-screening-workers/internal/common/errors"
	"cv-screening-workers/internal/common/logger"
	"cv-screening-workers/internal/common/observability"
	"cv-screening-workers/internal/models"
	"cv-screening-workers/internal/notify"
	"cv-screening-workers/internal/pipeline/queue"
	"cv-screening-workers/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore copies sessions on read and write like the real JSON
// stores do, so handlers never share pointers across goroutines.
type fakeStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
	saveErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string][]byte)}
}

func (f *fakeStore) put(t *testing.T, session *models.Session) {
	t.Helper()
	body, err := json.Marshal(session)
	require.NoError(t, err)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = body
}

func (f *fakeStore) mustGet(t *testing.T, sessionID string) *models.Session {
	t.Helper()
	s, err := f.Get(context.Background(), sessionID)
	require.NoError(t, err)
	return s
}

func (f *fakeStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.sessions[sessionID]
	if !ok {
		return nil, store.ErrSessionNotFound
	}
	var s models.Session
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (f *fakeStore) GetAll(ctx context.Context) ([]*models.Session, error) {
	f.mu.Lock()
	ids := make([]string, 0, len(f.sessions))
	for id := range f.sessions {
		ids = append(ids, id)
	}
	f.mu.Unlock()

	var out []*models.Session
	for _, id := range ids {
		s, err := f.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStore) Save(ctx context.Context, session *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	body, err := json.Marshal(session)
	if err != nil {
		return err
	}
	f.sessions[session.ID] = body
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, sessionID)
	return nil
}

type fakeExtractor struct {
	mu    sync.Mutex
	cv    *models.CVData
	err   error
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, rawText string, offer models.JobOffer) (*models.CVData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	cv := *f.cv
	return &cv, nil
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingSink struct {
	mu              sync.Mutex
	progress        []string
	documentResults []bool
	statusChanges   []string
	errorMessages   []string
}

func (r *recordingSink) Progress(ctx context.Context, sessionID string, percent int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, message)
}

func (r *recordingSink) DocumentResult(ctx context.Context, sessionID, documentID string, success bool, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documentResults = append(r.documentResults, success)
}

func (r *recordingSink) AnalysisComplete(ctx context.Context, sessionID string, summary notify.AnalysisSummary) {
}

func (r *recordingSink) ProcessingError(ctx context.Context, sessionID, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errorMessages = append(r.errorMessages, message)
}

func (r *recordingSink) StatusChanged(ctx context.Context, sessionID, status, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statusChanges = append(r.statusChanges, status)
}

func extractingSession(id string, docIDs ...string) *models.Session {
	session := &models.Session{
		ID:       id,
		JobOffer: models.JobOffer{Title: "Backend Engineer", RequiredSkills: []string{"Go"}},
		Status:   models.SessionStatusCreated,
	}
	for _, docID := range docIDs {
		session.Documents = append(session.Documents, &models.Document{
			ID:            docID,
			SessionID:     id,
			FileName:      docID + ".pdf",
			Status:        models.DocumentStatusExtracting,
			ExtractedText: "raw cv text",
			UploadedAt:    time.Now().UTC(),
		})
	}
	return session
}

func extractedCV() *models.CVData {
	return &models.CVData{
		PersonalInfo: models.PersonalInfo{Name: "Jane Doe"},
		Skills:       []string{"Go", "SQL"},
		Experiences: []models.Experience{
			{Company: "Acme", Position: "Go Developer", Duration: "6 years", Technologies: []string{"Go"}},
		},
	}
}

func TestHandle_ProcessesDocument(t *testing.T) {
	st := newFakeStore()
	st.put(t, extractingSession("sess-1", "doc-1"))

	sink := &recordingSink{}
	handler := NewHandler(st, &fakeExtractor{cv: extractedCV()}, sink, logger.NewTestLogger(t))

	job := models.DocumentProcessingJob{SessionID: "sess-1", DocumentID: "doc-1", EnqueuedAt: time.Now()}
	require.NoError(t, handler.Handle(context.Background(), job))

	session := st.mustGet(t, "sess-1")
	doc := session.FindDocument("doc-1")
	assert.Equal(t, models.DocumentStatusProcessed, doc.Status)
	require.NotNil(t, doc.ExtractedData)
	assert.Equal(t, "Jane Doe", doc.ExtractedData.PersonalInfo.Name)
	require.NotNil(t, doc.ExtractedData.Score, "score computed when extractor omits it")
	assert.NotNil(t, doc.ProcessedAt)

	// Single document terminal: session completes.
	assert.Equal(t, models.SessionStatusCompleted, session.Status)
	assert.Equal(t, 100, session.Progress)
	assert.Equal(t, []bool{true}, sink.documentResults)
	assert.Contains(t, sink.statusChanges, "COMPLETED")
}

func TestHandle_ExtractionFailureMarksDocumentOnly(t *testing.T) {
	st := newFakeStore()
	st.put(t, extractingSession("sess-1", "doc-1", "doc-2"))

	sink := &recordingSink{}
	handler := NewHandler(st, &fakeExtractor{err: errors.New("model overloaded")}, sink, logger.NewTestLogger(t))

	job := models.DocumentProcessingJob{SessionID: "sess-1", DocumentID: "doc-1", EnqueuedAt: time.Now()}
	err := handler.Handle(context.Background(), job)
	require.Error(t, err)
	assert.Equal(t, pipelineerrors.ErrCodeExtractionFailed, pipelineerrors.CodeOf(err))

	session := st.mustGet(t, "sess-1")
	doc := session.FindDocument("doc-1")
	assert.Equal(t, models.DocumentStatusFailed, doc.Status)
	assert.Contains(t, doc.ErrorMessage, "model overloaded")

	// The sibling document and the session are untouched.
	assert.Equal(t, models.DocumentStatusExtracting, session.FindDocument("doc-2").Status)
	assert.Equal(t, models.SessionStatusCreated, session.Status)
	assert.Equal(t, []bool{false}, sink.documentResults)
	assert.Equal(t, 50, session.Progress)
}

func TestHandle_MissingSessionDropsJob(t *testing.T) {
	st := newFakeStore()
	sink := &recordingSink{}
	extractor := &fakeExtractor{cv: extractedCV()}
	handler := NewHandler(st, extractor, sink, logger.NewTestLogger(t))

	job := models.DocumentProcessingJob{SessionID: "nope", DocumentID: "doc-1", EnqueuedAt: time.Now()}
	err := handler.Handle(context.Background(), job)

	require.Error(t, err)
	assert.Equal(t, pipelineerrors.ErrCodeSessionNotFound, pipelineerrors.CodeOf(err))
	assert.Zero(t, extractor.callCount())
	assert.Empty(t, sink.documentResults)
}

func TestHandle_MissingDocumentDropsJob(t *testing.T) {
	st := newFakeStore()
	st.put(t, extractingSession("sess-1", "doc-1"))

	extractor := &fakeExtractor{cv: extractedCV()}
	handler := NewHandler(st, extractor, &recordingSink{}, logger.NewTestLogger(t))

	job := models.DocumentProcessingJob{SessionID: "sess-1", DocumentID: "other", EnqueuedAt: time.Now()}
	err := handler.Handle(context.Background(), job)

	require.Error(t, err)
	assert.Equal(t, pipelineerrors.ErrCodeDocumentNotFound, pipelineerrors.CodeOf(err))
	assert.Zero(t, extractor.callCount())
}

func TestHandle_TerminalDocumentIsNotReprocessed(t *testing.T) {
	st := newFakeStore()
	session := extractingSession("sess-1", "doc-1")
	session.Documents[0].Status = models.DocumentStatusProcessed
	st.put(t, session)

	extractor := &fakeExtractor{cv: extractedCV()}
	handler := NewHandler(st, extractor, &recordingSink{}, logger.NewTestLogger(t))

	job := models.DocumentProcessingJob{SessionID: "sess-1", DocumentID: "doc-1", EnqueuedAt: time.Now()}
	require.NoError(t, handler.Handle(context.Background(), job))
	assert.Zero(t, extractor.callCount())
}

func TestPool_DrainsQueueAndStops(t *testing.T) {
	st := newFakeStore()
	sessionIDs := []string{"sess-1", "sess-2", "sess-3"}
	for _, id := range sessionIDs {
		st.put(t, extractingSession(id, id+"-doc"))
	}

	handler := NewHandler(st, &fakeExtractor{cv: extractedCV()}, &recordingSink{}, logger.NewTestLogger(t))
	q := queue.New[models.DocumentProcessingJob](10)
	pool := NewPool(&Config{WorkerCount: 2}, q, handler, &observability.Observability{}, logger.NewTestLogger(t))

	ctx := context.Background()
	for _, id := range sessionIDs {
		require.NoError(t, q.Enqueue(ctx, models.DocumentProcessingJob{
			SessionID: id, DocumentID: id + "-doc", EnqueuedAt: time.Now(),
		}))
	}
	q.Close()

	var wg sync.WaitGroup
	pool.Start(ctx, &wg)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not drain and stop")
	}

	for _, id := range sessionIDs {
		session := st.mustGet(t, id)
		assert.Equal(t, models.DocumentStatusProcessed, session.Documents[0].Status)
		assert.Equal(t, models.SessionStatusCompleted, session.Status)
	}
}
