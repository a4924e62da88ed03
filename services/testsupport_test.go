package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wordtrail-app/wordtrail_api/dto"
	"github.com/wordtrail-app/wordtrail_api/model"
	"github.com/wordtrail-app/wordtrail_api/shared"
	"github.com/wordtrail-app/wordtrail_api/srs"
)

// fakeClock pins time so interval arithmetic is assertable.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func testTime() time.Time {
	return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
}

func progressKey(userID, wordID string) string {
	return userID + "/" + wordID
}

// fakeProgressStore is an in-memory ProgressStore. conflictsLeft simulates
// optimistic collisions: each pending conflict fails one SaveProgress or
// ApplyBatchOutcome call with shared.ErrStorageConflict.
type fakeProgressStore struct {
	records       map[string]*model.WordProgress
	sessions      *fakeSessionStore
	conflictsLeft int
	saveCalls     int
	sweepErr      error
}

func newFakeProgressStore() *fakeProgressStore {
	return &fakeProgressStore{records: map[string]*model.WordProgress{}}
}

func (s *fakeProgressStore) put(p *model.WordProgress) {
	cp := *p
	s.records[progressKey(p.UserID, p.WordID)] = &cp
}

func (s *fakeProgressStore) get(userID, wordID string) *model.WordProgress {
	return s.records[progressKey(userID, wordID)]
}

func (s *fakeProgressStore) GetProgress(userID, wordID string) (*model.WordProgress, error) {
	p, ok := s.records[progressKey(userID, wordID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *fakeProgressStore) CreateProgress(p *model.WordProgress) (*model.WordProgress, error) {
	key := progressKey(p.UserID, p.WordID)
	if _, ok := s.records[key]; ok {
		return nil, fmt.Errorf("duplicate key value violates unique constraint %q", "idx_user_word")
	}
	cp := *p
	s.records[key] = &cp
	out := cp
	return &out, nil
}

func (s *fakeProgressStore) SaveProgress(p *model.WordProgress) error {
	s.saveCalls++
	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return shared.ErrStorageConflict
	}
	key := progressKey(p.UserID, p.WordID)
	if _, ok := s.records[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	s.records[key] = &cp
	return nil
}

func (s *fakeProgressStore) DeleteProgress(userID, wordID string) error {
	key := progressKey(userID, wordID)
	if _, ok := s.records[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(s.records, key)
	return nil
}

func statusRank(st srs.Status) int {
	switch st {
	case srs.StatusWantToLearn:
		return 0
	case srs.StatusLearning:
		return 1
	case srs.StatusReview:
		return 2
	case srs.StatusLearned:
		return 3
	}
	return 4
}

func (s *fakeProgressStore) list(userID string) []*model.WordProgress {
	var rows []*model.WordProgress
	for _, p := range s.records {
		if p.UserID == userID {
			rows = append(rows, p)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		ri, rj := statusRank(rows[i].Status), statusRank(rows[j].Status)
		if ri != rj {
			return ri < rj
		}
		return rows[i].UpdatedAt.Before(rows[j].UpdatedAt)
	})
	return rows
}

func (s *fakeProgressStore) ListProgress(userID string, f dto.ProgressFilter) ([]model.WordProgress, int, error) {
	var out []model.WordProgress
	for _, p := range s.list(userID) {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, *p)
	}
	total := len(out)
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			out = nil
		} else {
			out = out[f.Offset:]
		}
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (s *fakeProgressStore) SelectBatchCandidates(userID string, size int) ([]model.WordProgress, error) {
	var out []model.WordProgress
	for _, p := range s.list(userID) {
		switch p.Status {
		case srs.StatusWantToLearn, srs.StatusLearning, srs.StatusReview:
			out = append(out, *p)
		}
		if len(out) == size {
			break
		}
	}
	return out, nil
}

func (s *fakeProgressStore) MarkOverdueForReview(now time.Time) (int64, error) {
	if s.sweepErr != nil {
		return 0, s.sweepErr
	}
	var swept int64
	for _, p := range s.records {
		if p.Status != srs.StatusLearned && p.Status != srs.StatusMastered {
			continue
		}
		if p.NextReviewAt == nil || p.NextReviewAt.After(now) {
			continue
		}
		p.Status = srs.StatusReview
		p.UpdatedAt = now
		swept++
	}
	return swept, nil
}

func (s *fakeProgressStore) ApplyBatchOutcome(session *model.StudySession, progress []*model.WordProgress) error {
	if s.conflictsLeft > 0 {
		s.conflictsLeft--
		return shared.ErrStorageConflict
	}
	for _, p := range progress {
		cp := *p
		s.records[progressKey(p.UserID, p.WordID)] = &cp
	}
	if s.sessions != nil {
		cp := *session
		s.sessions.sessions[session.ID] = &cp
	}
	return nil
}

type fakeSessionStore struct {
	sessions map[string]*model.StudySession
	details  map[string][]model.SessionDetail
	nextID   int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[string]*model.StudySession{},
		details:  map[string][]model.SessionDetail{},
	}
}

func (s *fakeSessionStore) CreateSession(sess *model.StudySession) (*model.StudySession, error) {
	if sess.ID == "" {
		s.nextID++
		sess.ID = fmt.Sprintf("session-%d", s.nextID)
	}
	cp := *sess
	s.sessions[sess.ID] = &cp
	out := cp
	return &out, nil
}

func (s *fakeSessionStore) GetSession(sessionID string) (*model.StudySession, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *fakeSessionStore) AddSessionDetail(d *model.SessionDetail) error {
	s.details[d.SessionID] = append(s.details[d.SessionID], *d)
	return nil
}

func (s *fakeSessionStore) ListSessionDetails(sessionID string) ([]model.SessionDetail, error) {
	return s.details[sessionID], nil
}

type fakeCatalog struct {
	words  map[string]*model.Word
	guides map[string]*model.Guide
}

func newFakeCatalog(words ...model.Word) *fakeCatalog {
	c := &fakeCatalog{words: map[string]*model.Word{}, guides: map[string]*model.Guide{}}
	for i := range words {
		w := words[i]
		c.words[w.ID] = &w
	}
	return c
}

func (c *fakeCatalog) WordExists(wordID string) (bool, error) {
	_, ok := c.words[wordID]
	return ok, nil
}

func (c *fakeCatalog) GetWord(wordID string) (*model.Word, error) {
	w, ok := c.words[wordID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	return &cp, nil
}

func (c *fakeCatalog) GetWords(wordIDs []string) ([]model.Word, error) {
	var out []model.Word
	for _, id := range wordIDs {
		if w, ok := c.words[id]; ok {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (c *fakeCatalog) RandomWords(excludeIDs []string, limit int) ([]model.Word, error) {
	excluded := map[string]bool{}
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	ids := make([]string, 0, len(c.words))
	for id := range c.words {
		if !excluded[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	var out []model.Word
	for _, id := range ids {
		out = append(out, *c.words[id])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (c *fakeCatalog) GetGuide(guideID string) (*model.Guide, error) {
	g, ok := c.guides[guideID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *g
	return &cp, nil
}

func (c *fakeCatalog) GuideWordIDs(guideID string) ([]string, error) {
	g, ok := c.guides[guideID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	raw := strings.Trim(string(g.WordIDs), "[]")
	if raw == "" {
		return nil, nil
	}
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		ids = append(ids, strings.Trim(strings.TrimSpace(part), `"`))
	}
	return ids, nil
}

type fakeStreakStore struct {
	streaks map[string]*model.Streak
}

func newFakeStreakStore() *fakeStreakStore {
	return &fakeStreakStore{streaks: map[string]*model.Streak{}}
}

func (s *fakeStreakStore) GetStreak(userID, streakType string) (*model.Streak, error) {
	st, ok := s.streaks[userID+"/"+streakType]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *st
	return &cp, nil
}

func (s *fakeStreakStore) CreateStreak(st *model.Streak) (*model.Streak, error) {
	cp := *st
	s.streaks[st.UserID+"/"+st.StreakType] = &cp
	out := cp
	return &out, nil
}

func (s *fakeStreakStore) SaveStreak(st *model.Streak) error {
	cp := *st
	s.streaks[st.UserID+"/"+st.StreakType] = &cp
	return nil
}

type fakeAnswerKeys struct {
	keys map[string]map[string]int
}

func newFakeAnswerKeys() *fakeAnswerKeys {
	return &fakeAnswerKeys{keys: map[string]map[string]int{}}
}

func (s *fakeAnswerKeys) PutAnswerKey(_ context.Context, sessionID string, key map[string]int, _ time.Duration) error {
	s.keys[sessionID] = key
	return nil
}

func (s *fakeAnswerKeys) GetAnswerKey(_ context.Context, sessionID string) (map[string]int, error) {
	return s.keys[sessionID], nil
}

func (s *fakeAnswerKeys) DeleteAnswerKey(_ context.Context, sessionID string) error {
	delete(s.keys, sessionID)
	return nil
}

func newTestStreakService(clock shared.Clock) (*StreakService, *fakeStreakStore) {
	store := newFakeStreakStore()
	return &StreakService{store: store, clock: clock}, store
}
