package backend

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Synchronicityai-org/tinywins/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_MissingIDDropsRecord(t *testing.T) {
	assert.Nil(t, normalizeMilestone(rawRecord{Title: ptr("no id")}))
	assert.Nil(t, normalizeMilestone(rawRecord{ID: ptr("")}))
	assert.Nil(t, normalizeTask(rawRecord{}))
	assert.Nil(t, normalizeKidProfile(rawKidProfile{Name: ptr("Milo")}))
	assert.Nil(t, normalizeUser(rawUser{}))
	assert.Nil(t, normalizeTeam(rawTeam{}))
	assert.Nil(t, normalizeTeamMember(rawTeamMember{}))
	assert.Nil(t, normalizeAccessRequest(rawAccessRequest{}))
	assert.Nil(t, normalizeQuestion(rawQuestion{}))
	assert.Nil(t, normalizeUserResponse(rawUserResponse{}))
	assert.Nil(t, normalizeBlogPost(rawBlogPost{}))
	assert.Nil(t, normalizeBlogComment(rawBlogComment{}))
}

func TestNormalizeMilestone_FillsDefaults(t *testing.T) {
	m := normalizeMilestone(rawRecord{ID: ptr("m-1")})
	require.NotNil(t, m)
	assert.Equal(t, "m-1", m.ID)
	assert.Equal(t, domain.StatusNotStarted, m.Status)
	assert.Equal(t, domain.SentimentNone, m.Sentiment)
	assert.Nil(t, m.FeedbackAt)
	assert.True(t, m.CreatedAt.IsZero())
}

func TestNormalizeTask_MapsParentToMilestone(t *testing.T) {
	created := "2026-03-01T10:00:00Z"
	task := normalizeTask(rawRecord{
		ID:        ptr("t-1"),
		ParentID:  ptr("m-1"),
		Status:    ptr("COMPLETED"),
		CreatedAt: &created,
	})
	require.NotNil(t, task)
	assert.Equal(t, "m-1", task.MilestoneID)
	assert.Equal(t, domain.StatusCompleted, task.Status)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), task.CreatedAt)
}

// Sentiment arrives in its legacy mixed encoding; decoding happens once,
// inside the raw record.
func TestRawRecord_SentimentWireEncodings(t *testing.T) {
	cases := map[string]domain.Sentiment{
		`{"id":"t","sentiment":"love"}`:    domain.SentimentLove,
		`{"id":"t","sentiment":true}`:      domain.SentimentPositive,
		`{"id":"t","sentiment":"neutral"}`: domain.SentimentNeutral,
		`{"id":"t","sentiment":false}`:     domain.SentimentNegative,
		`{"id":"t","sentiment":null}`:      domain.SentimentNone,
		`{"id":"t"}`:                       domain.SentimentNone,
	}
	for payload, want := range cases {
		var raw rawRecord
		require.NoError(t, json.Unmarshal([]byte(payload), &raw), payload)
		assert.Equal(t, want, raw.Sentiment, payload)
	}
}

func TestWireTimeHelpers(t *testing.T) {
	assert.True(t, wireTime(nil).IsZero())
	assert.True(t, wireTime(ptr("garbage")).IsZero())
	assert.Nil(t, wireTimePtr(nil))
	assert.Nil(t, wireTimePtr(ptr("")))

	got := wireTimePtr(ptr("2026-01-02T03:04:05Z"))
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), *got)

	// Dates come in plain or as full timestamps, depending on the
	// client version that wrote them.
	dob := wireDate(ptr("2022-06-15"))
	require.NotNil(t, dob)
	assert.Equal(t, 2022, dob.Year())
	dob = wireDate(ptr("2022-06-15T00:00:00Z"))
	require.NotNil(t, dob)
	assert.Equal(t, time.June, dob.Month())
}

func TestNormalizeKidProfile_Defaults(t *testing.T) {
	p := normalizeKidProfile(rawKidProfile{ID: ptr("kid-1"), Name: ptr("Milo")})
	require.NotNil(t, p)
	assert.Equal(t, 0, p.AgeYears)
	assert.False(t, p.HasDiagnosis)
	assert.Nil(t, p.DOB)
}

func TestNormalizeTeamMember_Defaults(t *testing.T) {
	m := normalizeTeamMember(rawTeamMember{ID: ptr("member-1")})
	require.NotNil(t, m)
	assert.Equal(t, domain.MemberPending, m.Status)
	assert.Equal(t, domain.RoleCaregiver, m.Role)
}

func TestNormalizeBlogPost_Defaults(t *testing.T) {
	p := normalizeBlogPost(rawBlogPost{ID: ptr("post-1")})
	require.NotNil(t, p)
	assert.Equal(t, domain.PostDraft, p.Status)
	assert.False(t, p.Flagged)
}
