package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"podparty/internal/clock"
	"podparty/internal/metrics"
	"podparty/internal/test"
	"podparty/pkg/tasks"
)

var partyColumns = []string{"id", "public_id", "episode_id", "name", "start_time", "end_time", "is_active", "created_at"}
var detailColumns = append(append([]string{}, partyColumns...),
	"episode_title", "episode_media_url", "podcast_title", "podcast_artwork_url")

func newTestHandlers(enqueuer tasks.TaskEnqueuer) *Handlers {
	return New(template.New("test"), enqueuer, metrics.New())
}

func postPartyForm(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/parties", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestCreateParty(t *testing.T) {
	_, mock := test.NewMockDB(t)
	mockEnqueuer := &test.MockTaskEnqueuer{}
	h := newTestHandlers(mockEnqueuer)

	now := time.Now().UTC()
	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO episodes DEFAULT VALUES`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "podcast_id", "title", "media_url", "created_at"}).
			AddRow(int64(2), nil, nil, nil, now))

	mock.ExpectQuery(`INSERT INTO listening_parties`).
		WithArgs(sqlmock.AnyArg(), int64(2), "Friday Night", start).
		WillReturnRows(sqlmock.NewRows(partyColumns).
			AddRow(int64(1), "pub-1", int64(2), "Friday Night", start, nil, true, now))

	form := url.Values{}
	form.Add("name", "Friday Night")
	form.Add("feed_url", "https://x/feed.rss")
	form.Add("start_time", "2026-09-01T19:00")

	rr := httptest.NewRecorder()
	h.CreateParty(rr, postPartyForm(form))

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/parties/pub-1", rr.Header().Get("Location"))

	// The feed resolution happens out of band: the handler only enqueues.
	assert.Len(t, mockEnqueuer.EnqueuedTasks, 1)
	assert.Equal(t, tasks.TypeProcessFeed, mockEnqueuer.EnqueuedTasks[0].Type())

	var payload tasks.ProcessFeedTaskPayload
	assert.NoError(t, json.Unmarshal(mockEnqueuer.EnqueuedTasks[0].Payload(), &payload))
	assert.Equal(t, "https://x/feed.rss", payload.FeedURL)
	assert.Equal(t, int64(1), payload.PartyID)
	assert.Equal(t, int64(2), payload.EpisodeID)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestCreatePartyRejectsBadInput(t *testing.T) {
	_, mock := test.NewMockDB(t)
	mockEnqueuer := &test.MockTaskEnqueuer{}
	h := newTestHandlers(mockEnqueuer)

	cases := []url.Values{
		{"feed_url": {"https://x/feed.rss"}, "start_time": {"2026-09-01T19:00"}},          // missing name
		{"name": {"x"}, "feed_url": {"not a url"}, "start_time": {"2026-09-01T19:00"}},    // bad URL
		{"name": {"x"}, "feed_url": {"ftp://x/feed"}, "start_time": {"2026-09-01T19:00"}}, // bad scheme
		{"name": {"x"}, "feed_url": {"https://x/feed.rss"}, "start_time": {"tomorrow"}},   // bad time
	}
	for _, form := range cases {
		rr := httptest.NewRecorder()
		h.CreateParty(rr, postPartyForm(form))
		assert.Equal(t, http.StatusBadRequest, rr.Code, "form %v", form)
	}

	assert.Empty(t, mockEnqueuer.EnqueuedTasks)
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func getPartyJSON(t *testing.T, h *Handlers, id string) (*httptest.ResponseRecorder, partyResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/parties/"+id, nil)
	rr := httptest.NewRecorder()

	r := mux.NewRouter()
	r.HandleFunc("/api/parties/{id}", h.GetPartyJSON)
	r.ServeHTTP(rr, req)

	var resp partyResponse
	if rr.Code == http.StatusOK {
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestGetPartyJSONLive(t *testing.T) {
	_, mock := test.NewMockDB(t)
	h := newTestHandlers(&test.MockTaskEnqueuer{})

	start := time.Now().UTC().Add(-10 * time.Minute)
	end := start.Add(30 * time.Minute)

	mock.ExpectQuery(`FROM listening_parties lp`).WithArgs("pub-1").
		WillReturnRows(sqlmock.NewRows(detailColumns).
			AddRow(int64(1), "pub-1", int64(2), "Friday Night", start, end, true, start,
				"Ep 1", "https://x/ep1.mp3", "Sample Cast", "https://x/artwork.png"))

	rr, resp := getPartyJSON(t, h, "pub-1")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Friday Night", resp.Name)
	assert.True(t, resp.IsActive)
	assert.NotNil(t, resp.EndTime)
	assert.NotNil(t, resp.Episode)
	assert.Equal(t, "Ep 1", resp.Episode.Title)
	assert.Equal(t, "https://x/ep1.mp3", resp.Episode.MediaURL)
	assert.Equal(t, "Sample Cast", resp.Episode.Podcast.Title)

	assert.Equal(t, clock.PhaseLive, resp.Clock.Phase)
	// Ten minutes in, give or take the time the request itself took.
	assert.InDelta(t, 600, resp.Clock.SeekOffsetSeconds, 2)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestGetPartyJSONPending(t *testing.T) {
	_, mock := test.NewMockDB(t)
	h := newTestHandlers(&test.MockTaskEnqueuer{})

	start := time.Now().UTC().Add(time.Hour)

	mock.ExpectQuery(`FROM listening_parties lp`).WithArgs("pub-1").
		WillReturnRows(sqlmock.NewRows(detailColumns).
			AddRow(int64(1), "pub-1", int64(2), "Friday Night", start, nil, true, start,
				nil, nil, nil, nil))

	rr, resp := getPartyJSON(t, h, "pub-1")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, clock.PhasePending, resp.Clock.Phase)
	assert.Nil(t, resp.EndTime)
	assert.Nil(t, resp.Episode)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestGetPartyJSONNotFound(t *testing.T) {
	_, mock := test.NewMockDB(t)
	h := newTestHandlers(&test.MockTaskEnqueuer{})

	mock.ExpectQuery(`FROM listening_parties lp`).WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(detailColumns))

	rr, _ := getPartyJSON(t, h, "nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFinishParty(t *testing.T) {
	_, mock := test.NewMockDB(t)
	h := newTestHandlers(&test.MockTaskEnqueuer{})

	mock.ExpectExec(`UPDATE listening_parties SET is_active = FALSE WHERE public_id = \$1`).
		WithArgs("pub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodPost, "/api/parties/pub-1/finish", nil)
	rr := httptest.NewRecorder()

	r := mux.NewRouter()
	r.HandleFunc("/api/parties/{id}/finish", h.FinishParty)
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
