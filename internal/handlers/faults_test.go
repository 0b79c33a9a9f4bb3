package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echoboard/backend/internal/middleware"
	"github.com/echoboard/backend/internal/models"
	"github.com/echoboard/backend/internal/store"
)

// Store wrappers that fail a single lookup, for checking that upstream
// faults surface as 500 and are never mistaken for an absent row.

var errConnRefused = errors.New("dial tcp 10.0.0.1:5432: connect: connection refused")

type faultyQuestionStore struct {
	store.QuestionStore
}

func (s *faultyQuestionStore) FindByID(id int) (*models.Question, error) {
	return nil, errConnRefused
}

type faultyCommunityStore struct {
	store.CommunityStore
}

func (s *faultyCommunityStore) FindByIDOrSlug(idOrSlug string) (*models.Community, error) {
	return nil, errConnRefused
}

type faultyAnswerStore struct {
	store.AnswerStore
}

func (s *faultyAnswerStore) FindByID(id int) (*models.Answer, error) {
	return nil, errConnRefused
}

func TestListAnswers_QuestionLookupFault(t *testing.T) {
	mem := newMemStores()
	alice := seedUser(mem, "alice", false, false)

	stores := mem.stores()
	stores.Questions = &faultyQuestionStore{QuestionStore: stores.Questions}
	router := newTestRouterWith(stores)

	w := doJSON(t, router, http.MethodGet, "/api/questions/1/answers", tokenFor(t, alice.ID), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "not found")
}

func TestCreateAnswer_QuestionLookupFault(t *testing.T) {
	mem := newMemStores()
	alice := seedUser(mem, "alice", false, false)

	stores := mem.stores()
	stores.Questions = &faultyQuestionStore{QuestionStore: stores.Questions}
	router := newTestRouterWith(stores)

	w := doJSON(t, router, http.MethodPost, "/api/questions/1/answers", tokenFor(t, alice.ID), gin.H{"text": "hi"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetQuestion_LookupFault(t *testing.T) {
	mem := newMemStores()
	alice := seedUser(mem, "alice", false, false)

	stores := mem.stores()
	stores.Questions = &faultyQuestionStore{QuestionStore: stores.Questions}
	router := newTestRouterWith(stores)

	w := doJSON(t, router, http.MethodGet, "/api/questions/1", tokenFor(t, alice.ID), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetCommunity_LookupFault(t *testing.T) {
	mem := newMemStores()
	alice := seedUser(mem, "alice", false, false)

	stores := mem.stores()
	stores.Communities = &faultyCommunityStore{CommunityStore: stores.Communities}
	router := newTestRouterWith(stores)

	w := doJSON(t, router, http.MethodGet, "/api/communities/gophers", tokenFor(t, alice.ID), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLikeAnswer_LookupFault(t *testing.T) {
	mem := newMemStores()
	alice := seedUser(mem, "alice", false, false)

	stores := mem.stores()
	stores.Answers = &faultyAnswerStore{AnswerStore: stores.Answers}
	router := newTestRouterWith(stores)

	w := doJSON(t, router, http.MethodPost, "/api/answers/1/like", tokenFor(t, alice.ID), nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateQuestion_RejectsMalformedDate(t *testing.T) {
	mem := newMemStores()
	router := newTestRouter(mem, defaultLimiter())
	admin := seedUser(mem, "root", false, true)
	token := tokenFor(t, admin.ID)

	for _, date := range []string{"not-a-date", "2026-13-40", "01-09-2026"} {
		w := doJSON(t, router, http.MethodPost, "/api/questions", token, gin.H{
			"text":           "Prompt?",
			"effective_date": date,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "date %q must be rejected", date)
	}

	// A well-formed date still goes through, and the daily lookup finds it.
	w := doJSON(t, router, http.MethodPost, "/api/questions", token, gin.H{
		"text":           "Prompt?",
		"effective_date": "2026-09-02",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	q, err := mem.stores().Questions.Find(models.ScopeGlobal, nil, "2026-09-02")
	require.NoError(t, err)
	assert.Equal(t, "Prompt?", q.Text)
}

// newTestRouterWith builds the router over an explicit Stores bundle so
// individual repositories can be swapped for failing ones.
func newTestRouterWith(stores Stores) *gin.Engine {
	h := NewHandler(stores)

	r := gin.New()
	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/questions/:id", h.Question.GetQuestion)
	protected.GET("/questions/:id/answers", h.Answer.ListAnswers)
	protected.POST("/questions/:id/answers", h.Answer.CreateAnswer)
	protected.POST("/answers/:id/like", h.Answer.LikeAnswer)
	protected.GET("/communities/:id", h.Community.GetCommunity)
	return r
}
