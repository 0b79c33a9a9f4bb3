package handlers

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/echoboard/backend/internal/models"
	"github.com/echoboard/backend/internal/store"
)

// In-memory stores with the same uniqueness contracts as the gorm-backed
// ones, for driving the handlers through httptest without a database.

type memStores struct {
	mu          sync.Mutex
	users       map[int]*models.User
	questions   map[int]*models.Question
	answers     map[int]*models.Answer
	reactions   map[string]*models.Reaction
	communities map[int]*models.Community
	memberships map[string]*models.Membership
	reports     []*models.Report
	nextID      int
}

func newMemStores() *memStores {
	return &memStores{
		users:       make(map[int]*models.User),
		questions:   make(map[int]*models.Question),
		answers:     make(map[int]*models.Answer),
		reactions:   make(map[string]*models.Reaction),
		communities: make(map[int]*models.Community),
		memberships: make(map[string]*models.Membership),
	}
}

func (m *memStores) id() int {
	m.nextID++
	return m.nextID
}

func (m *memStores) stores() Stores {
	return Stores{
		Users:       (*memUserStore)(m),
		Questions:   (*memQuestionStore)(m),
		Answers:     (*memAnswerStore)(m),
		Reactions:   (*memReactionStore)(m),
		Communities: (*memCommunityStore)(m),
		Reports:     (*memReportStore)(m),
	}
}

type memUserStore memStores

func (s *memUserStore) FindByID(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (s *memUserStore) FindByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memUserStore) FindByIDs(ids []int) (map[int]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]models.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (s *memUserStore) Insert(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return store.ErrConflict
		}
	}
	u.ID = (*memStores)(s).id()
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *memUserStore) Update(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return store.ErrNotFound
	}
	copied := *u
	s.users[u.ID] = &copied
	return nil
}

func (s *memUserStore) MarkOnboarded(userID int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok && u.OnboardingCompletedAt == nil {
		u.OnboardingCompletedAt = &at
	}
	return nil
}

type memQuestionStore memStores

func (s *memQuestionStore) Find(scope string, communityID *int, date string) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.questions {
		if q.Scope == scope && q.EffectiveDate == date && sameCommunity(q.CommunityID, communityID) {
			copied := *q
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memQuestionStore) FindByID(id int) (*models.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok := s.questions[id]; ok {
		copied := *q
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (s *memQuestionStore) Insert(q *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.questions {
		if existing.Scope == q.Scope && existing.EffectiveDate == q.EffectiveDate && sameCommunity(existing.CommunityID, q.CommunityID) {
			return store.ErrConflict
		}
	}
	q.ID = (*memStores)(s).id()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	copied := *q
	s.questions[q.ID] = &copied
	return nil
}

func sameCommunity(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type memAnswerStore memStores

func (s *memAnswerStore) FindActive(questionID, userID int) (*models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.answers {
		if a.QuestionID == questionID && a.UserID == userID && a.DeletedAt == nil {
			copied := *a
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memAnswerStore) FindByID(id int) (*models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.answers[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (s *memAnswerStore) Insert(a *models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.answers {
		if existing.QuestionID == a.QuestionID && existing.UserID == a.UserID && existing.DeletedAt == nil {
			return store.ErrConflict
		}
	}
	a.ID = (*memStores)(s).id()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	copied := *a
	s.answers[a.ID] = &copied
	return nil
}

func (s *memAnswerStore) SoftDelete(answerID, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[answerID]
	if !ok || a.UserID != userID || a.DeletedAt != nil {
		return store.ErrNotFound
	}
	now := time.Now().UTC()
	a.DeletedAt = &now
	return nil
}

func (s *memAnswerStore) others(questionID, excludeUserID int) []models.Answer {
	var out []models.Answer
	for _, a := range s.answers {
		if a.QuestionID == questionID && a.UserID != excludeUserID && a.DeletedAt == nil {
			out = append(out, *a)
		}
	}
	return out
}

func page(answers []models.Answer, limit, offset int) []models.Answer {
	if offset >= len(answers) {
		return nil
	}
	answers = answers[offset:]
	if len(answers) > limit {
		answers = answers[:limit]
	}
	return answers
}

func (s *memAnswerStore) ListOthers(questionID, excludeUserID, limit, offset int) ([]models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.others(questionID, excludeUserID)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, limit, offset), nil
}

func (s *memAnswerStore) likeCount(answerID int) int64 {
	var n int64
	for _, r := range s.reactions {
		if r.AnswerID == answerID && r.Type == models.ReactionLike {
			n++
		}
	}
	return n
}

func (s *memAnswerStore) ListOthersMostLiked(questionID, excludeUserID, limit, offset int) ([]store.AnswerWithLikes, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	answers := s.others(questionID, excludeUserID)
	rows := make([]store.AnswerWithLikes, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, store.AnswerWithLikes{Answer: a, LikeCount: s.likeCount(a.ID)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].LikeCount != rows[j].LikeCount {
			return rows[i].LikeCount > rows[j].LikeCount
		}
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].ID > rows[j].ID
	})
	if offset >= len(rows) {
		return nil, nil
	}
	rows = rows[offset:]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *memAnswerStore) ListByUser(userID, limit, offset int) ([]models.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Answer
	for _, a := range s.answers {
		if a.UserID == userID && a.DeletedAt == nil {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, limit, offset), nil
}

type memReactionStore memStores

func reactionKey(answerID, userID int, reactionType string) string {
	return strconv.Itoa(answerID) + ":" + strconv.Itoa(userID) + ":" + reactionType
}

func (s *memReactionStore) Insert(answerID, userID int, reactionType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reactionKey(answerID, userID, reactionType)
	if _, ok := s.reactions[key]; ok {
		return store.ErrConflict
	}
	s.reactions[key] = &models.Reaction{
		ID:        (*memStores)(s).id(),
		AnswerID:  answerID,
		UserID:    userID,
		Type:      reactionType,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *memReactionStore) Delete(answerID, userID int, reactionType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reactions, reactionKey(answerID, userID, reactionType))
	return nil
}

func (s *memReactionStore) CountForAnswers(answerIDs []int) (map[int]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[int]int64)
	for _, id := range answerIDs {
		for _, r := range s.reactions {
			if r.AnswerID == id && r.Type == models.ReactionLike {
				counts[id]++
			}
		}
	}
	return counts, nil
}

func (s *memReactionStore) ExistsForAnswers(answerIDs []int, userID int) (map[int]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	liked := make(map[int]bool)
	for _, id := range answerIDs {
		if _, ok := s.reactions[reactionKey(id, userID, models.ReactionLike)]; ok {
			liked[id] = true
		}
	}
	return liked, nil
}

type memCommunityStore memStores

func (s *memCommunityStore) List(query string, limit, offset int) ([]models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Community
	for _, c := range s.communities {
		if c.DeletedAt == nil {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page2(out, limit, offset), nil
}

func page2(communities []models.Community, limit, offset int) []models.Community {
	if offset >= len(communities) {
		return nil
	}
	communities = communities[offset:]
	if len(communities) > limit {
		communities = communities[:limit]
	}
	return communities
}

func (s *memCommunityStore) FindByIDOrSlug(idOrSlug string) (*models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.communities {
		if c.DeletedAt == nil && (c.Slug == idOrSlug || strconv.Itoa(c.ID) == idOrSlug) {
			copied := *c
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *memCommunityStore) FindByID(id int) (*models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.communities[id]; ok && c.DeletedAt == nil {
		copied := *c
		return &copied, nil
	}
	return nil, store.ErrNotFound
}

func (s *memCommunityStore) ListActive() ([]models.Community, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Community
	for _, c := range s.communities {
		if c.DeletedAt == nil {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memCommunityStore) Insert(c *models.Community) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.communities {
		if existing.Slug == c.Slug {
			return store.ErrConflict
		}
	}
	c.ID = (*memStores)(s).id()
	copied := *c
	s.communities[c.ID] = &copied
	return nil
}

func (s *memCommunityStore) Members(communityID int) ([]models.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Membership
	for _, m := range s.memberships {
		if m.CommunityID == communityID {
			member := *m
			if u, ok := s.users[m.UserID]; ok {
				member.User = *u
			}
			out = append(out, member)
		}
	}
	return out, nil
}

func (s *memCommunityStore) Join(communityID, userID int, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strconv.Itoa(communityID) + ":" + strconv.Itoa(userID)
	if _, ok := s.memberships[key]; ok {
		return store.ErrConflict
	}
	s.memberships[key] = &models.Membership{
		ID:          (*memStores)(s).id(),
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
		JoinedAt:    time.Now().UTC(),
	}
	return nil
}

type memReportStore memStores

func (s *memReportStore) Insert(r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = (*memStores)(s).id()
	r.CreatedAt = time.Now().UTC()
	copied := *r
	s.reports = append(s.reports, &copied)
	return nil
}
